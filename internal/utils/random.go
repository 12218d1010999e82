package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/petscare-dev/staff-allocator/backend/internal/domain"
)

var firstNames = []string{
	"Alice", "Ben", "Carla", "Diego", "Emma", "Felix", "Grace", "Hugo",
	"Iris", "Jonas", "Kara", "Liam", "Mia", "Noah", "Olivia", "Pablo",
	"Quinn", "Rosa", "Sam", "Tara",
}
var lastNames = []string{
	"Park", "Osei", "Nguyen", "Silva", "Haddad", "Kowalski", "Ivanova",
	"Moreau", "Tanaka", "Okafor", "Lindqvist", "Costa", "Demir", "Fischer",
}

func GenerateRandomFullName() string {
	return firstNames[rand.Intn(len(firstNames))] + " " + lastNames[rand.Intn(len(lastNames))]
}

var digits = "0123456789"

func GenerateEmailFromName(fullName string, emailDomainName string) string {
	local := strings.ToLower(strings.ReplaceAll(fullName, " ", "."))
	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		local += string(digits[rand.Intn(len(digits))])
	}
	return local + "@" + emailDomainName
}

// GenerateRandomRating leaves roughly a third of staff unrated so seeded data
// exercises the default-rating fallback.
func GenerateRandomRating() *float64 {
	if rand.Intn(3) == 0 {
		return nil
	}
	rating := float64(rand.Intn(21))/10 + 3 // 3.0 to 5.0
	return &rating
}

// GenerateRandomSubset picks a non-empty random subset with a Fisher-Yates
// shuffle.
func GenerateRandomSubset(arr []int64) []int64 {
	arrCopy := append([]int64{}, arr...)

	for i := 0; i < len(arrCopy)-1; i++ {
		j := rand.Intn(len(arrCopy)-i) + i
		arrCopy[i], arrCopy[j] = arrCopy[j], arrCopy[i]
	}

	l := rand.Intn(len(arrCopy)) + 1
	return arrCopy[:l]
}

func GenerateRandomStaffMember(emailDomainName string, serviceIDs []int64) *domain.StaffMember {
	fullName := GenerateRandomFullName()

	return &domain.StaffMember{
		FullName:   fullName,
		Email:      GenerateEmailFromName(fullName, emailDomainName),
		Rating:     GenerateRandomRating(),
		ServiceIDs: GenerateRandomSubset(serviceIDs),
	}
}

// GenerateRandomPatternWeek produces opening hours for Monday through
// Saturday; Sunday stays closed so seeded data has a closed weekday.
func GenerateRandomPatternWeek() []domain.PatternDay {
	days := make([]domain.PatternDay, 0, 6)
	for weekday := int32(1); weekday <= 6; weekday++ {
		openHour := rand.Intn(3) + 8   // 08 to 10
		closeHour := rand.Intn(4) + 17 // 17 to 20
		days = append(days, domain.PatternDay{
			Weekday:   weekday,
			StartTime: fmt.Sprintf("%02d:00:00", openHour),
			EndTime:   fmt.Sprintf("%02d:00:00", closeHour),
		})
	}
	return days
}
