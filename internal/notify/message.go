package notify

import (
	"fmt"
	"strings"

	"github.com/shenikar/green_corridor_dispatch/internal/models"
)

// Context - все, что известно о происшествии к этапу уведомлений
type Context struct {
	Incident    models.Incident
	Assessment  models.SeverityAssessment
	Reservation models.Reservation
	Route       models.Route
	Corridor    *models.CorridorActivation
}

// Recipients - учреждение и заявитель всегда, дорожная служба только при активном коридоре
func Recipients(corridor *models.CorridorActivation) []models.RecipientClass {
	if corridor.Engaged() {
		return []models.RecipientClass{models.RecipientFacility, models.RecipientAuthority, models.RecipientRequester}
	}
	return []models.RecipientClass{models.RecipientFacility, models.RecipientRequester}
}

// Build формирует уведомления для всех получателей
func Build(c Context) []models.Notification {
	recipients := Recipients(c.Corridor)
	notes := make([]models.Notification, 0, len(recipients))
	for _, r := range recipients {
		notes = append(notes, models.Notification{
			IncidentID: c.Incident.ID,
			Recipient:  r,
			Payload:    payload(r, c),
		})
	}
	return notes
}

func payload(r models.RecipientClass, c Context) models.NotificationPayload {
	p := models.NotificationPayload{
		Tier:         c.Assessment.Tier,
		Score:        c.Assessment.Score,
		FacilityID:   c.Reservation.FacilityID,
		FacilityName: c.Reservation.Facility.Name,
		ETAMinutes:   c.Route.PriorityETA,
		TimeSaved:    c.Route.TimeSaved,
	}
	label := strings.ToUpper(c.Assessment.PriorityLabel)
	if label == "" {
		label = strings.ToUpper(string(c.Assessment.Tier))
	}

	switch r {
	case models.RecipientFacility:
		p.Preparations = c.Assessment.Preparations
		p.Subject = fmt.Sprintf("%s incoming patient (%s)", label, c.Incident.Category)
		body := fmt.Sprintf("%s EMERGENCY - ETA %d MIN. Bed class: %s.", label, c.Route.PriorityETA, c.Reservation.BedClass)
		if len(p.Preparations) > 0 {
			body += " Prepare: " + strings.Join(p.Preparations, ", ") + "."
		}
		if c.Reservation.Override {
			body += " Critical override applied."
		}
		p.Body = body
	case models.RecipientAuthority:
		if c.Corridor != nil {
			p.SignalPoints = c.Corridor.SignalPoints
		}
		p.Subject = fmt.Sprintf("Priority corridor request to %s", c.Reservation.Facility.Name)
		p.Body = fmt.Sprintf("Clear %d signal points along %.1f km to %s. Expected travel %d min (baseline %d, saves %d).",
			p.SignalPoints, c.Route.DistanceKm, c.Reservation.Facility.Name,
			c.Route.PriorityETA, c.Route.BaselineETA, c.Route.TimeSaved)
	case models.RecipientRequester:
		p.Contact = c.Incident.Requester.Contact
		p.Subject = "Ambulance dispatched"
		p.Body = fmt.Sprintf("Help is on the way to %s. Estimated arrival at hospital in %d min.",
			c.Reservation.Facility.Name, c.Route.PriorityETA)
	}
	return p
}
