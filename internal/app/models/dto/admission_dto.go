package dto

import (
	"mime/multipart"
	"strconv"
	"strings"
)

// AdmissionForm is the admission submission after binding and trimming.
// ClassID stays a string so a bad value can be echoed back unchanged.
type AdmissionForm struct {
	FullName      string `form:"fullname" validate:"required,max=100"`
	Email         string `form:"email" validate:"required,email,max=100"`
	DOBBS         string `form:"dob_bs" validate:"max=20"`
	DOBAD         string `form:"dob_ad" validate:"required,isodate"`
	ClassID       string `form:"class_id" validate:"required,numeric"`
	ParentContact string `form:"parent_contact" validate:"required,max=20"`
	Gender        string `form:"gender" validate:"required,oneof=Male Female Other"`
	Address       string `form:"address" validate:"max=255"`
	Section       string `form:"section" validate:"max=10"`
}

// Trim strips surrounding whitespace from every field
func (f *AdmissionForm) Trim() {
	f.FullName = strings.TrimSpace(f.FullName)
	f.Email = strings.TrimSpace(f.Email)
	f.DOBBS = strings.TrimSpace(f.DOBBS)
	f.DOBAD = strings.TrimSpace(f.DOBAD)
	f.ClassID = strings.TrimSpace(f.ClassID)
	f.ParentContact = strings.TrimSpace(f.ParentContact)
	f.Gender = strings.TrimSpace(f.Gender)
	f.Address = strings.TrimSpace(f.Address)
	f.Section = strings.TrimSpace(f.Section)
}

// Values returns the submitted fields keyed by form name, for re-populating the form
func (f *AdmissionForm) Values() map[string]string {
	return map[string]string{
		"fullname":       f.FullName,
		"email":          f.Email,
		"dob_bs":         f.DOBBS,
		"dob_ad":         f.DOBAD,
		"class_id":       f.ClassID,
		"parent_contact": f.ParentContact,
		"gender":         f.Gender,
		"address":        f.Address,
		"section":        f.Section,
	}
}

// ClassIDValue parses the selected class, returning 0 when it is not a number
func (f *AdmissionForm) ClassIDValue() int64 {
	id, err := strconv.ParseInt(f.ClassID, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// PhotoUpload is the optional file that came with the form
type PhotoUpload struct {
	Header *multipart.FileHeader
}

// Present reports whether a file was attached
func (p *PhotoUpload) Present() bool {
	return p != nil && p.Header != nil && p.Header.Filename != "" && p.Header.Size > 0
}

// AdmissionResult identifies the records created by a successful admission
type AdmissionResult struct {
	StudentID      int64  `json:"studentId"`
	UserID         int64  `json:"userId"`
	Username       string `json:"username"`
	RollNo         int    `json:"rollNo"`
	AcademicYearID int64  `json:"academicYearId"`
	Photo          string `json:"photo,omitempty"`
}
