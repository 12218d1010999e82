// Package seed loads a small but realistic data set: a grooming salon and a
// veterinary clinic with opening patterns, staffing targets, and a staff
// roster spread across both.
package seed

import (
	"context"
	"log/slog"
	"time"

	"github.com/petscare-dev/staff-allocator/backend/internal/domain"
	"github.com/petscare-dev/staff-allocator/backend/internal/repository"
)

var services = []domain.Service{
	{Name: "Dog Grooming", Description: "Full grooming session including wash, cut and nail trim"},
	{Name: "Cat Grooming", Description: "Grooming session adapted to cats"},
	{Name: "Veterinary Checkup", Description: "Routine health examination"},
	{Name: "Vaccination", Description: "Vaccine administration with a short pre-check"},
	{Name: "Dog Walking", Description: "Individual 60 minute walk"},
}

type seedLocation struct {
	location domain.Location
	pattern  []domain.PatternDay
}

var locations = []seedLocation{
	{
		location: domain.Location{Name: "Riverside Grooming Salon", Timezone: "Europe/Berlin"},
		pattern:  weekdayPattern("09:00:00", "18:00:00", 1, 2, 3, 4, 5, 6),
	},
	{
		location: domain.Location{Name: "Harbor Veterinary Clinic", Timezone: "Europe/Berlin"},
		pattern:  weekdayPattern("08:00:00", "20:00:00", 1, 2, 3, 4, 5),
	},
}

func weekdayPattern(start, end string, weekdays ...int32) []domain.PatternDay {
	days := make([]domain.PatternDay, 0, len(weekdays))
	for _, wd := range weekdays {
		days = append(days, domain.PatternDay{Weekday: wd, StartTime: start, EndTime: end})
	}
	return days
}

type seedStaff struct {
	fullName     string
	email        string
	rating       *float64
	serviceNames []string
	locationName string
}

func ratingOf(v float64) *float64 { return &v }

var staff = []seedStaff{
	{"Alice Park", "alice.park@petscare.example", ratingOf(4.8), []string{"Dog Grooming", "Cat Grooming"}, "Riverside Grooming Salon"},
	{"Ben Osei", "ben.osei@petscare.example", ratingOf(4.2), []string{"Dog Grooming", "Dog Walking"}, "Riverside Grooming Salon"},
	{"Carla Silva", "carla.silva@petscare.example", nil, []string{"Dog Grooming"}, "Riverside Grooming Salon"},
	{"Diego Moreau", "diego.moreau@petscare.example", ratingOf(4.9), []string{"Veterinary Checkup", "Vaccination"}, "Harbor Veterinary Clinic"},
	{"Emma Tanaka", "emma.tanaka@petscare.example", ratingOf(4.5), []string{"Veterinary Checkup", "Vaccination"}, "Harbor Veterinary Clinic"},
	{"Felix Kowalski", "felix.kowalski@petscare.example", nil, []string{"Vaccination", "Dog Walking"}, "Harbor Veterinary Clinic"},
}

func SeedRealData(r *repository.Repository) {
	ctx := context.Background()

	serviceIDs := make(map[string]int64)
	for i := range services {
		service := services[i]
		if err := r.CreateService(ctx, &service); err != nil {
			slog.Error("unable to insert service", "name", service.Name, "error", err)
			return
		}
		serviceIDs[service.Name] = service.ID
	}
	slog.Info("services inserted", "count", len(services))

	locationIDs := make(map[string]int64)
	for i := range locations {
		location := locations[i].location
		if err := r.CreateLocation(ctx, &location); err != nil {
			slog.Error("unable to insert location", "name", location.Name, "error", err)
			return
		}
		if err := r.ReplacePatternDays(ctx, location.ID, locations[i].pattern); err != nil {
			slog.Error("unable to insert pattern", "name", location.Name, "error", err)
			return
		}
		locationIDs[location.Name] = location.ID
	}
	slog.Info("locations inserted", "count", len(locations))

	// Staffing targets: groomers on Saturday mornings, a vet on weekday
	// mornings. The vet target carries the higher priority.
	requirements := map[string][]domain.StaffingRequirement{
		"Riverside Grooming Salon": {
			{ServiceID: serviceIDs["Dog Grooming"], Weekday: 6, StartTime: "09:00:00", EndTime: "13:00:00", RequiredCount: 2, Priority: 5, IsActive: true},
		},
		"Harbor Veterinary Clinic": {
			{ServiceID: serviceIDs["Veterinary Checkup"], Weekday: 1, StartTime: "08:00:00", EndTime: "12:00:00", RequiredCount: 1, Priority: 10, IsActive: true},
			{ServiceID: serviceIDs["Veterinary Checkup"], Weekday: 3, StartTime: "08:00:00", EndTime: "12:00:00", RequiredCount: 1, Priority: 10, IsActive: true},
		},
	}
	for locationName, reqs := range requirements {
		if err := r.ReplaceStaffingRequirements(ctx, locationIDs[locationName], reqs); err != nil {
			slog.Error("unable to insert staffing requirements", "location", locationName, "error", err)
			return
		}
	}
	slog.Info("staffing requirements inserted")

	employmentStart := time.Now().AddDate(-1, 0, 0)
	var firstStaffID int64
	for _, s := range staff {
		ids := make([]int64, 0, len(s.serviceNames))
		for _, name := range s.serviceNames {
			ids = append(ids, serviceIDs[name])
		}

		member := &domain.StaffMember{
			FullName:   s.fullName,
			Email:      s.email,
			Rating:     s.rating,
			ServiceIDs: ids,
		}
		if err := r.CreateStaffMember(ctx, member); err != nil {
			slog.Error("unable to insert staff member", "name", s.fullName, "error", err)
			return
		}
		if firstStaffID == 0 {
			firstStaffID = member.ID
		}

		employment := &domain.Employment{
			StaffID:    member.ID,
			LocationID: locationIDs[s.locationName],
			StartDate:  employmentStart,
		}
		if err := r.CreateEmployment(ctx, employment); err != nil {
			slog.Error("unable to insert employment", "name", s.fullName, "error", err)
			return
		}
	}
	slog.Info("staff members inserted", "count", len(staff))

	// One approved vacation next week so availability queries have something
	// to subtract.
	nextMonday := nextWeekday(time.Now(), time.Monday)
	vacation := &domain.Absence{
		StaffID:   firstStaffID,
		Type:      domain.AbsenceVacation,
		StartDate: nextMonday,
		EndDate:   nextMonday.AddDate(0, 0, 4),
		Approved:  true,
		Reason:    "annual leave",
	}
	if err := r.CreateAbsence(ctx, vacation); err != nil {
		slog.Error("unable to insert absence", "error", err)
		return
	}
	slog.Info("seed data loaded")
}

func nextWeekday(from time.Time, weekday time.Weekday) time.Time {
	days := (int(weekday) - int(from.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	y, m, d := from.AddDate(0, 0, days).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
