package storage_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teebox/annotator/internal/storage"
)

func TestErrCourseNotFoundWrapping(t *testing.T) {
	err := fmt.Errorf("get course 42: %w", storage.ErrCourseNotFound)
	assert.True(t, errors.Is(err, storage.ErrCourseNotFound))
	assert.Equal(t, "get course 42: course not found", err.Error())
}
