// Package api is the REST client for the course backend.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/teebox/annotator/internal/storage"
	"github.com/teebox/annotator/pkg/core"
)

var _ storage.CourseSource = (*Client)(nil)
var _ storage.Importer = (*Client)(nil)

// Client handles communication with the course backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client. baseURL includes the /api prefix.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// errorBody is the backend's error payload.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// StatusError is returned for non-2xx replies.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

func statusError(resp *http.Response) *StatusError {
	se := &StatusError{Status: resp.StatusCode}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		switch {
		case eb.Error != "" && eb.Message != "":
			se.Message = eb.Error + ": " + eb.Message
		case eb.Error != "":
			se.Message = eb.Error
		default:
			se.Message = eb.Message
		}
	}
	return se
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// Healthcheck reports the backend status. An unhealthy backend replies 503
// with a payload; both the payload and an error are returned then.
func (c *Client) Healthcheck(ctx context.Context) (core.Health, error) {
	var h core.Health
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return h, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return h, fmt.Errorf("healthcheck request failed: %w", err)
	}
	defer resp.Body.Close()

	decodeErr := json.NewDecoder(resp.Body).Decode(&h)
	if resp.StatusCode != http.StatusOK {
		msg := h.Error
		if msg == "" {
			msg = h.Status
		}
		return h, &StatusError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return h, fmt.Errorf("decoding health: %w", decodeErr)
	}
	return h, nil
}

// ListCourses fetches the course selector list.
func (c *Client) ListCourses(ctx context.Context) ([]core.CourseSummary, error) {
	var list []core.CourseSummary
	if err := c.getJSON(ctx, "/courses-list", &list); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return list, nil
}

// GetCourse fetches one undecorated course.
func (c *Client) GetCourse(ctx context.Context, id int) (*core.CourseData, error) {
	var cd core.CourseData
	err := c.getJSON(ctx, "/courses/"+strconv.Itoa(id), &cd)
	if se, ok := err.(*StatusError); ok && se.Status == http.StatusNotFound {
		return nil, fmt.Errorf("course %d: %w", id, storage.ErrCourseNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get course %d: %w", id, err)
	}
	return &cd, nil
}

// ImportKML uploads a KML file as the multipart field "kml".
func (c *Client) ImportKML(ctx context.Context, filePath string) (core.ImportResult, error) {
	var result core.ImportResult

	file, err := os.Open(filePath)
	if err != nil {
		return result, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	pr, pw := io.Pipe()
	writer := multipart.NewWriter(pw)

	errCh := make(chan error, 1)
	go func() {
		part, err := writer.CreateFormFile("kml", filepath.Base(filePath))
		if err != nil {
			pw.CloseWithError(err)
			errCh <- fmt.Errorf("failed to create form file: %w", err)
			return
		}
		if _, err := io.Copy(part, file); err != nil {
			pw.CloseWithError(err)
			errCh <- fmt.Errorf("failed to copy file: %w", err)
			return
		}
		err = writer.Close()
		pw.CloseWithError(err)
		errCh <- err
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/import-kml", pr)
	if err != nil {
		pr.Close()
		<-errCh
		return result, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		pr.Close()
		<-errCh
		return result, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	// the server may answer before draining the upload
	pr.Close()
	writeErr := <-errCh

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return result, fmt.Errorf("import kml: %w", statusError(resp))
	}
	if writeErr != nil {
		return result, writeErr
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return result, fmt.Errorf("decoding import result: %w", err)
	}
	return result, nil
}
