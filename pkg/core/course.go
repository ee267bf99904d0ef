// pkg/core/course.go
package core

// CourseSummary is one entry of the course selector list.
type CourseSummary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// HoleData represents one hole and its hole-scoped annotations
type HoleData struct {
	ID          int          `json:"id"`
	HoleNumber  int          `json:"holeNumber"`
	Par         int          `json:"par"`
	CourseID    int          `json:"courseId"`
	Annotations []Annotation `json:"annotations"`
}

// CourseData represents a whole course as returned by the backend.
// RefLat is filled client side and is the latitude of the first coordinate
// pair seen across global annotations, then hole annotations.
type CourseData struct {
	ID              int          `json:"id"`
	Name            string       `json:"name"`
	LeaderboardCode string       `json:"leaderboardCode,omitempty"`
	AchievementCode string       `json:"achievementCode,omitempty"`
	Holes           []HoleData   `json:"holes"`
	Annotations     []Annotation `json:"annotations"`
	RefLat          float64      `json:"ref_lat"`
}

// TotalAnnotations counts global and hole annotations.
func (c *CourseData) TotalAnnotations() int {
	n := len(c.Annotations)
	for _, h := range c.Holes {
		n += len(h.Annotations)
	}
	return n
}

// HoleByNumber returns the hole with the given number.
func (c *CourseData) HoleByNumber(number int) (*HoleData, bool) {
	for i := range c.Holes {
		if c.Holes[i].HoleNumber == number {
			return &c.Holes[i], true
		}
	}
	return nil, false
}

// ImportResult is the backend's reply to a KML upload.
type ImportResult struct {
	Message           string `json:"message"`
	CourseName        string `json:"courseName"`
	Holes             int    `json:"holes"`
	GlobalAnnotations int    `json:"globalAnnotations"`
}

// Health is the backend health check payload.
type Health struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Error     string `json:"error,omitempty"`
}
