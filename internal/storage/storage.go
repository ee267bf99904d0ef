// Package storage defines where courses come from. The REST client and the
// local gorm mirror both satisfy CourseSource.
package storage

import (
	"context"
	"errors"

	"github.com/teebox/annotator/pkg/core"
)

// ErrCourseNotFound is returned when a course id is unknown to the source.
var ErrCourseNotFound = errors.New("course not found")

// CourseSource is the interface all course providers must satisfy.
// Courses are returned undecorated.
type CourseSource interface {
	ListCourses(ctx context.Context) ([]core.CourseSummary, error)
	GetCourse(ctx context.Context, id int) (*core.CourseData, error)
}

// CourseStore is a source that can also mirror courses locally.
type CourseStore interface {
	CourseSource
	SaveCourse(ctx context.Context, c *core.CourseData) error
}

// Importer is an optional interface for sources that accept KML uploads.
type Importer interface {
	ImportKML(ctx context.Context, path string) (core.ImportResult, error)
}
