package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-mentorship/internal/apperror"
	"github.com/noah-isme/gema-mentorship/internal/models"
	"github.com/noah-isme/gema-mentorship/internal/store"
)

// StudentLocks are the collections the registry writes.
var StudentLocks = []store.Collection{store.Students}

// StudentRegistry enrolls students. Emails are unique regardless of case.
type StudentRegistry interface {
	Register(ctx context.Context, tx *store.Tx, name, email string) (models.Student, error)
}

type studentRegistry struct {
	validate *validator.Validate
	logger   zerolog.Logger
	now      func() time.Time
	newID    func() string
}

// NewStudentRegistry constructs the student registry.
func NewStudentRegistry(validate *validator.Validate, logger zerolog.Logger) StudentRegistry {
	if validate == nil {
		validate = validator.New()
	}
	return &studentRegistry{
		validate: validate,
		logger:   logger.With().Str("component", "student_registry").Logger(),
		now:      utcNow,
		newID:    newID,
	}
}

func (r *studentRegistry) Register(ctx context.Context, tx *store.Tx, name, email string) (models.Student, error) {
	cleanName := cleanText(name)
	if cleanName == "" {
		return models.Student{}, apperror.Invalid("name is required", nil)
	}
	normalized := strings.ToLower(strings.TrimSpace(email))
	if err := r.validate.Var(normalized, "required,email"); err != nil {
		return models.Student{}, apperror.Invalid("email is invalid", err)
	}

	students, err := store.Get[models.Student](ctx, tx, store.Students)
	if err != nil {
		return models.Student{}, err
	}
	if slices.ContainsFunc(students, func(s models.Student) bool { return strings.EqualFold(s.Email, normalized) }) {
		return models.Student{}, apperror.ErrDuplicateEmail.Withf("%s", normalized)
	}

	now := r.now()
	student := models.Student{
		ID:        r.newID(),
		Name:      cleanName,
		Email:     normalized,
		CreatedAt: now,
		UpdatedAt: now,
	}
	students = append(students, student)
	if err := store.Put(ctx, tx, store.Students, students); err != nil {
		return models.Student{}, err
	}

	r.logger.Info().Str("student_id", student.ID).Msg("student registered")
	return student, nil
}
