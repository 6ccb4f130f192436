package store

import (
	"context"
	"math"

	errorvalues "github.com/limbo/logbook/internal/error_values"
	"github.com/limbo/logbook/pkg/entity"
)

type ProfileRequest struct {
	Name           string  `validate:"max=80"`
	BirthMonth     *int    `validate:"omitempty,min=1,max=12"`
	BirthYear      *int    `validate:"omitempty,min=1900,max=2100"`
	HeightCm       int     `validate:"omitempty,min=80,max=250"`
	Gender         string  `validate:"omitempty,oneof=male female"`
	ActivityLevel  float64 `validate:"omitempty,min=1,max=2.5"`
	StartingWeight float64 `validate:"omitempty,gt=20,lt=400"`
}

// HealthSummary carries the numbers derived from the profile and the
// latest logged weight. Fields stay zero when the inputs for them are
// missing.
type HealthSummary struct {
	Age            int      `json:"age,omitempty"`
	CurrentWeight  *float64 `json:"current_weight,omitempty"`
	BMI            float64  `json:"bmi,omitempty"`
	BMICategory    string   `json:"bmi_category,omitempty"`
	BMR            int      `json:"bmr,omitempty"`
	TDEE           int      `json:"tdee,omitempty"`
	CaloriesMild   int      `json:"calories_mild,omitempty"`
	CaloriesMedium int      `json:"calories_medium,omitempty"`
	CaloriesHard   int      `json:"calories_hard,omitempty"`
}

// WeeklySummary aggregates the last seven days of log entries.
type WeeklySummary struct {
	WeightChange *float64 `json:"weight_change,omitempty"`
	GymDays      int      `json:"gym_days"`
	WalkDays     int      `json:"walk_days"`
	GoodSleep    int      `json:"good_sleep"`
	NoJunkDays   int      `json:"no_junk_days"`
	DaysLogged   int      `json:"days_logged"`
}

func (s *Store) Profile() entity.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

func (s *Store) SetProfile(ctx context.Context, req *ProfileRequest) (entity.Profile, error) {
	if err := validateStruct(*req); err != nil {
		return entity.Profile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = entity.Profile{
		Name:           req.Name,
		BirthMonth:     req.BirthMonth,
		BirthYear:      req.BirthYear,
		HeightCm:       req.HeightCm,
		Gender:         req.Gender,
		ActivityLevel:  req.ActivityLevel,
		StartingWeight: req.StartingWeight,
	}
	s.saveSlot(ctx, slotProfile, s.profile)
	return s.profile, nil
}

// HealthSummary derives age, BMI, BMR (Mifflin-St Jeor) and calorie
// targets from the profile and the latest logged weight. Each number is
// only filled when its inputs are present.
func (s *Store) HealthSummary() HealthSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	var summary HealthSummary
	summary.CurrentWeight = s.currentWeightLocked()
	if summary.CurrentWeight == nil && s.profile.StartingWeight > 0 {
		w := s.profile.StartingWeight
		summary.CurrentWeight = &w
	}

	summary.Age = s.ageLocked()

	if summary.CurrentWeight != nil && s.profile.HeightCm > 0 {
		heightM := float64(s.profile.HeightCm) / 100
		summary.BMI = math.Round(*summary.CurrentWeight/(heightM*heightM)*10) / 10
		summary.BMICategory = bmiCategory(summary.BMI)
	}

	if summary.CurrentWeight != nil && s.profile.HeightCm > 0 && summary.Age > 0 && s.profile.Gender != "" {
		bmr := 10**summary.CurrentWeight + 6.25*float64(s.profile.HeightCm) - 5*float64(summary.Age)
		if s.profile.Gender == "male" {
			bmr += 5
		} else {
			bmr -= 161
		}
		summary.BMR = int(math.Round(bmr))
		if s.profile.ActivityLevel > 0 {
			summary.TDEE = int(math.Round(bmr * s.profile.ActivityLevel))
			summary.CaloriesMild = summary.TDEE - 550
			summary.CaloriesMedium = summary.TDEE - 1100
			summary.CaloriesHard = summary.TDEE - 1650
		}
	}
	return summary
}

func (s *Store) ageLocked() int {
	if s.profile.BirthYear == nil {
		return 0
	}
	today := s.today().Time()
	age := today.Year() - *s.profile.BirthYear
	if s.profile.BirthMonth != nil && int(today.Month()) < *s.profile.BirthMonth {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

func bmiCategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "underweight"
	case bmi < 25:
		return "normal"
	case bmi < 30:
		return "overweight"
	default:
		return "obese"
	}
}

// WeeklySummary walks the entries of the trailing seven days. Weight
// change is newest minus oldest logged weight inside the window, so a
// negative number means loss.
func (s *Store) WeeklySummary() (WeeklySummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.today().AddDays(-6)
	if !from.Valid() {
		return WeeklySummary{}, errorvalues.ErrInvalidDateRange
	}

	var summary WeeklySummary
	var newest, oldest *float64
	for _, e := range s.entries {
		if e.Date.Before(from) || e.Date.After(s.today()) {
			continue
		}
		summary.DaysLogged++
		switch e.Activity {
		case entity.ActivityGym:
			summary.GymDays++
		case entity.ActivityWalk:
			summary.WalkDays++
		case entity.ActivityBoth:
			summary.GymDays++
			summary.WalkDays++
		}
		if e.SleepGood != nil && *e.SleepGood {
			summary.GoodSleep++
		}
		if e.NoJunk != nil && *e.NoJunk {
			summary.NoJunkDays++
		}
		if e.Weight != nil {
			// entries are sorted newest first
			if newest == nil {
				newest = e.Weight
			}
			oldest = e.Weight
		}
	}
	if newest != nil && oldest != nil && newest != oldest {
		change := *newest - *oldest
		summary.WeightChange = &change
	}
	return summary, nil
}
