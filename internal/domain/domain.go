// Package domain re-exports the per-subdomain model types so callers can
// refer to everything through one import, mirroring the table set that
// db.AutoMigrateAll manages.
package domain

import (
	"github.com/rskala/campusbridge-backend/internal/domain/attendance"
	"github.com/rskala/campusbridge-backend/internal/domain/billing"
	"github.com/rskala/campusbridge-backend/internal/domain/grading"
	"github.com/rskala/campusbridge-backend/internal/domain/guardian"
	"github.com/rskala/campusbridge-backend/internal/domain/identity"
	"github.com/rskala/campusbridge-backend/internal/domain/school"
	"github.com/rskala/campusbridge-backend/internal/domain/student"
)

type User = identity.User
type Role = identity.Role
type AccountStatus = identity.Status

type Guardian = guardian.Guardian
type GuardianStudentLink = guardian.GuardianStudentLink
type LinkStatus = guardian.LinkStatus

type Student = student.Student

type Subject = school.Subject
type Room = school.Room
type ClassSection = school.ClassSection
type Enrollment = school.Enrollment
type Session = school.Session

type AttendanceRecord = attendance.Record

type Assignment = grading.Assignment
type Grade = grading.Grade

type Invoice = billing.Invoice
type InvoiceLine = billing.InvoiceLine
type Payment = billing.Payment
