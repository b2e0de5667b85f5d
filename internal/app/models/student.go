package models

import "time"

// Student defines the profile stored in the 'students' table
type Student struct {
	ID            int64      `json:"id" db:"id" example:"1"`
	UserID        int64      `json:"userId" db:"user_id" example:"101"`
	FullName      string     `json:"fullName" db:"full_name"`
	Email         string     `json:"email" db:"email"`
	DOBBS         string     `json:"dobBs" db:"dob_bs" example:"2067-01-18"`
	DOB           *time.Time `json:"dob,omitempty" db:"dob"`
	Address       string     `json:"address" db:"address"`
	Gender        string     `json:"gender" db:"gender" example:"Male"`
	ParentContact string     `json:"parentContact" db:"parent_contact"`
	Photo         string     `json:"photo,omitempty" db:"photo"`
	IsActive      bool       `json:"isActive" db:"is_active"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
}

// Class is a grade the school teaches, managed outside the admission flow
type Class struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// AcademicYear marks a school year; exactly one is current
type AcademicYear struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"year_name"`
	StartDate time.Time `json:"startDate" db:"start_date"`
	IsCurrent bool      `json:"isCurrent" db:"is_current"`
}

// Enrollment places a student in a class for an academic year
type Enrollment struct {
	ID             int64   `json:"id" db:"id"`
	StudentID      int64   `json:"studentId" db:"student_id"`
	ClassID        int64   `json:"classId" db:"class_id"`
	AcademicYearID int64   `json:"academicYearId" db:"academic_year_id"`
	Section        *string `json:"section,omitempty" db:"section"`
	RollNo         int     `json:"rollNo" db:"roll_no"`
	Status         string  `json:"status" db:"status"`
}

// AdmissionRecord is the joined view shown on the confirmation report.
// Related values are nil when the join found nothing.
type AdmissionRecord struct {
	StudentID     int64
	FullName      string
	Email         string
	DOBBS         string
	DOB           *time.Time
	Address       string
	Gender        string
	ParentContact string
	Photo         string
	CreatedAt     time.Time
	Username      *string
	ClassName     *string
	Section       *string
	RollNo        *int
	YearName      *string
}
