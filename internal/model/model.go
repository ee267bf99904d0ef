// Package model holds the gorm models of the local course mirror.
package model

import (
	"time"

	"gorm.io/datatypes"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// DatabaseModels is a list of all the structs exported here which represent tables in the database schema
var DatabaseModels = []interface{}{
	&Course{},
	&Hole{},
	&HoleAnnotation{},
	&CourseAnnotation{},
}

// Course is one mirrored course. IDs are the backend's, not generated.
type Course struct {
	ID              int                `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name            string             `json:"name" gorm:"size:255;not null;index:idx_course_name"`
	LeaderboardCode string             `json:"leaderboardCode" gorm:"size:64"`
	AchievementCode string             `json:"achievementCode" gorm:"size:64"`
	MirroredAt      time.Time          `json:"mirroredAt"`
	Holes           []Hole             `json:"holes" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
	Annotations     []CourseAnnotation `json:"annotations" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

func (*Course) TableName() string {
	return "courses"
}

// Hole is one hole of a course.
type Hole struct {
	ID          int              `json:"id" gorm:"primaryKey;autoIncrement:false"`
	CourseID    int              `json:"courseId" gorm:"index:idx_hole_course_id;not null"`
	HoleNumber  int              `json:"holeNumber"`
	Par         int              `json:"par"`
	Annotations []HoleAnnotation `json:"annotations" gorm:"foreignKey:HoleID;constraint:OnDelete:CASCADE"`
}

func (*Hole) TableName() string {
	return "holes"
}

// HoleAnnotation is a hole-scoped annotation. RawCoords is the flat
// [lon0, lat0, lon1, lat1, ...] array as JSON.
type HoleAnnotation struct {
	ID        int            `json:"id" gorm:"primaryKey;autoIncrement:false"`
	HoleID    int            `json:"holeId" gorm:"index:idx_hole_annotation_hole_id;not null"`
	AnnotType string         `json:"annotType" gorm:"size:32;not null"`
	NumCoords int            `json:"numCoords"`
	RawCoords datatypes.JSON `json:"rawCoords"`
}

func (*HoleAnnotation) TableName() string {
	return "hole_annotations"
}

// CourseAnnotation is a course-level (global) annotation.
type CourseAnnotation struct {
	ID        int            `json:"id" gorm:"primaryKey;autoIncrement:false"`
	CourseID  int            `json:"courseId" gorm:"index:idx_course_annotation_course_id;not null"`
	AnnotType string         `json:"annotType" gorm:"size:32;not null"`
	NumCoords int            `json:"numCoords"`
	RawCoords datatypes.JSON `json:"rawCoords"`
}

func (*CourseAnnotation) TableName() string {
	return "course_annotations"
}
