package io

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupported(t *testing.T) {
	testCases := []struct {
		path string
		want bool
	}{
		{path: "photo.jpg", want: true},
		{path: "photo.JPEG", want: true},
		{path: "scan.tiff", want: true},
		{path: "/some/dir/img.webp", want: true},
		{path: "raw.cr2", want: false},
		{path: "notes.txt", want: false},
		{path: "noextension", want: false},
		{path: "dir.jpg/file", want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, Supported(tc.path))
		})
	}
}

func TestSupportedExtensionsCopy(t *testing.T) {
	exts := SupportedExtensions()
	assert.Contains(t, exts, ".png")

	exts[0] = ".raw"
	assert.NotContains(t, SupportedExtensions(), ".raw")
}
