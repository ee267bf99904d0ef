// Package gormstore mirrors courses into a SQL database through gorm.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/teebox/annotator/internal/model"
	"github.com/teebox/annotator/internal/model/convert"
	"github.com/teebox/annotator/internal/storage"
	"github.com/teebox/annotator/pkg/core"
)

var _ storage.CourseStore = (*Store)(nil)

// Store is a CourseStore on top of a gorm connection.
type Store struct {
	db  *gorm.DB
	log zerolog.Logger
	now func() time.Time
}

// New wraps an open connection. Call Migrate before first use on a fresh database.
func New(db *gorm.DB, log zerolog.Logger) *Store {
	return &Store{db: db, log: log, now: time.Now}
}

// Migrate creates or updates the mirror tables.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// ListCourses returns every mirrored course ordered by name.
func (s *Store) ListCourses(ctx context.Context) ([]core.CourseSummary, error) {
	var rows []model.Course
	err := s.db.WithContext(ctx).
		Select("id", "name").
		Order("name").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	out := make([]core.CourseSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, convert.CourseToSummary(r))
	}
	return out, nil
}

// GetCourse loads one course with its holes and annotations.
func (s *Store) GetCourse(ctx context.Context, id int) (*core.CourseData, error) {
	var row model.Course
	err := s.db.WithContext(ctx).
		Preload("Annotations", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Holes", func(db *gorm.DB) *gorm.DB { return db.Order("hole_number") }).
		Preload("Holes.Annotations", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("course %d: %w", id, storage.ErrCourseNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get course %d: %w", id, err)
	}

	c, err := convert.CourseToCore(row)
	if err != nil {
		return nil, fmt.Errorf("get course %d: %w", id, err)
	}
	return c, nil
}

// SaveCourse replaces any mirrored copy of the course in one transaction.
// The course must be undecorated: tree points share their parent's id.
func (s *Store) SaveCourse(ctx context.Context, c *core.CourseData) error {
	if c == nil || c.ID == 0 {
		return errors.New("save course: missing course id")
	}
	row := convert.CoreToCourse(c, s.now().UTC())

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		holeIDs := tx.Model(&model.Hole{}).Select("id").Where("course_id = ?", c.ID)
		if err := tx.Where("hole_id IN (?)", holeIDs).Delete(&model.HoleAnnotation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", c.ID).Delete(&model.Hole{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", c.ID).Delete(&model.CourseAnnotation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", c.ID).Delete(&model.Course{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Create(&row).Error
	})
	if err != nil {
		return fmt.Errorf("save course %d: %w", c.ID, err)
	}

	s.log.Info().
		Int("courseId", c.ID).
		Str("course", c.Name).
		Int("holes", len(c.Holes)).
		Int("annotations", c.TotalAnnotations()).
		Msg("Mirrored course")
	return nil
}
