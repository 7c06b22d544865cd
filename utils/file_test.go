package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "report_2024.pdf", SanitizeFileName("report 2024.pdf"))
	assert.Equal(t, "a_b_c.pdf", SanitizeFileName("a/b\\c.pdf"))
	assert.Equal(t, "plain-name_1.pdf", SanitizeFileName("plain-name_1.pdf"))
}

func TestFileNameWithoutExt(t *testing.T) {
	assert.Equal(t, "report", FileNameWithoutExt("/tmp/uploads/report.pdf"))
	assert.Equal(t, "archive.tar", FileNameWithoutExt("archive.tar.gz"))
	assert.Equal(t, "noext", FileNameWithoutExt("noext"))
}
