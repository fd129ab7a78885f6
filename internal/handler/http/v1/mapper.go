package v1

import (
	"github.com/shenikar/green_corridor_dispatch/internal/intake"
	"github.com/shenikar/green_corridor_dispatch/internal/models"
)

// DTOToRawIncident преобразует DTO подачи во входные данные конвейера
func DTOToRawIncident(dto CreateIncidentRequest) intake.RawIncident {
	return intake.RawIncident{
		ExternalRef:      dto.ExternalRef,
		Description:      dto.Description,
		Latitude:         dto.Latitude,
		Longitude:        dto.Longitude,
		Category:         dto.Category,
		Conscious:        dto.Conscious,
		Breathing:        dto.Breathing,
		Bleeding:         dto.Bleeding,
		PatientAge:       dto.PatientAge,
		SourceConfidence: dto.SourceConfidence,
		ReportedAt:       dto.ReportedAt,
		RequesterName:    dto.RequesterName,
		RequesterContact: dto.RequesterContact,
	}
}

// SnapshotToResponse преобразует снимок конвейера в DTO для ответа
func SnapshotToResponse(snap *models.DispatchSnapshot) *DispatchStatusResponse {
	resp := &DispatchStatusResponse{
		IncidentID:    snap.IncidentID,
		ExternalRef:   snap.ExternalRef,
		Stage:         string(snap.Stage),
		Reason:        snap.Reason,
		ReceivedAt:    snap.ReceivedAt,
		UpdatedAt:     snap.UpdatedAt,
		History:       snap.History,
		Assessment:    snap.Assessment,
		Reservation:   snap.Reservation,
		Route:         snap.Route,
		Corridor:      snap.Corridor,
		Notifications: snap.Notifications,
	}
	if snap.Assessment != nil {
		resp.Tier = string(snap.Assessment.Tier)
	}
	if snap.Reservation != nil {
		resp.FacilityID = snap.Reservation.FacilityID
	}
	if snap.Route != nil {
		resp.PriorityETA = snap.Route.PriorityETA
		resp.TimeSaved = snap.Route.TimeSaved
	}
	if snap.Corridor != nil {
		resp.CorridorStatus = string(snap.Corridor.Status)
	}
	if snap.Record != nil {
		resp.FinalizedRecord = RecordToResponse(snap.Record)
	}
	return resp
}

// SnapshotsToResponses преобразует слайс снимков в слайс DTO
func SnapshotsToResponses(snaps []models.DispatchSnapshot) []*DispatchStatusResponse {
	responses := make([]*DispatchStatusResponse, len(snaps))
	for i := range snaps {
		responses[i] = SnapshotToResponse(&snaps[i])
	}
	return responses
}

// RecordToResponse преобразует сводную запись в DTO для ответа
func RecordToResponse(record *models.DispatchRecord) *DispatchRecordResponse {
	return &DispatchRecordResponse{
		IncidentID:     record.IncidentID,
		ExternalRef:    record.ExternalRef,
		Status:         string(record.Status),
		Degraded:       record.Degraded,
		Reason:         record.Reason,
		ReceivedAt:     record.ReceivedAt,
		FinalizedAt:    record.FinalizedAt,
		ElapsedSeconds: record.Elapsed.Seconds(),
		Assessment:     record.Assessment,
		Reservation:    record.Reservation,
		Route:          record.Route,
		Corridor:       record.Corridor,
		Notifications:  record.Notifications,
	}
}

// RecordsToResponses преобразует слайс сводных записей в слайс DTO
func RecordsToResponses(records []*models.DispatchRecord) []*DispatchRecordResponse {
	responses := make([]*DispatchRecordResponse, len(records))
	for i, r := range records {
		responses[i] = RecordToResponse(r)
	}
	return responses
}

// FacilitiesToResponses преобразует учреждения в DTO
func FacilitiesToResponses(facilities []models.Facility) []*FacilityResponse {
	responses := make([]*FacilityResponse, len(facilities))
	for i, f := range facilities {
		responses[i] = &FacilityResponse{
			ID:           f.ID,
			Name:         f.Name,
			Latitude:     f.Location.Latitude,
			Longitude:    f.Location.Longitude,
			TraumaLevel:  f.TraumaLevel,
			Specialties:  f.Specialties,
			GeneralBeds:  f.GeneralBeds,
			CriticalBeds: f.CriticalBeds,
			Load:         f.Load,
		}
	}
	return responses
}
