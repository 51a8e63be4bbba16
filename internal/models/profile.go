package models

import "time"

const DateLayout = "2006-01-02"

// Profile is the public dating profile of a user, one per account.
type Profile struct {
	ID           int64      `gorm:"column:profile_id;primaryKey;autoIncrement"`
	UserID       int64      `gorm:"column:user_id;uniqueIndex;not null"`
	DisplayName  string     `gorm:"column:display_name;size:100;not null"`
	Bio          string     `gorm:"column:bio;type:text"`
	BirthDate    *time.Time `gorm:"column:birth_date;type:date"`
	Gender       string     `gorm:"column:gender;size:32"`
	InterestedIn string     `gorm:"column:interested_in;size:32"`
	City         string     `gorm:"column:city;size:100"`
	CreatedAt    time.Time  `gorm:"column:created_at;not null"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;not null"`
}

func (Profile) TableName() string {
	return "profiles"
}

type ProfileUpdate struct {
	DisplayName  string  `json:"display_name" validate:"required,max=100"`
	Bio          string  `json:"bio" validate:"max=500"`
	BirthDate    *string `json:"birth_date" validate:"omitnil,datetime=2006-01-02,pastdate"`
	Gender       string  `json:"gender" validate:"omitempty,oneof=male female non_binary other"`
	InterestedIn string  `json:"interested_in" validate:"omitempty,oneof=male female non_binary other everyone"`
	City         string  `json:"city" validate:"max=100"`
}

type ProfileResponse struct {
	UserID       int64     `json:"user_id"`
	DisplayName  string    `json:"display_name"`
	Bio          string    `json:"bio"`
	BirthDate    *string   `json:"birth_date"`
	Gender       string    `json:"gender"`
	InterestedIn string    `json:"interested_in"`
	City         string    `json:"city"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Apply copies the update onto p. BirthDate must already be validated.
func (u *ProfileUpdate) Apply(p *Profile) error {
	p.DisplayName = u.DisplayName
	p.Bio = u.Bio
	p.Gender = u.Gender
	p.InterestedIn = u.InterestedIn
	p.City = u.City
	p.BirthDate = nil

	if u.BirthDate != nil {
		birthDate, err := time.Parse(DateLayout, *u.BirthDate)
		if err != nil {
			return err
		}
		p.BirthDate = &birthDate
	}

	return nil
}

func (p *Profile) Response() *ProfileResponse {
	resp := &ProfileResponse{
		UserID:       p.UserID,
		DisplayName:  p.DisplayName,
		Bio:          p.Bio,
		Gender:       p.Gender,
		InterestedIn: p.InterestedIn,
		City:         p.City,
		UpdatedAt:    p.UpdatedAt,
	}

	if p.BirthDate != nil {
		birthDate := p.BirthDate.Format(DateLayout)
		resp.BirthDate = &birthDate
	}

	return resp
}
