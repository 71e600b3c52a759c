package uff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	binary := encodeMetaGraph(lenetMeta(1))
	noGraphs := encodeMetaGraph(&MetaGraph{Version: 1, Descriptors: []Descriptor{{ID: "x", Version: 1}}})
	unreferenced := lenetMeta(1)
	unreferenced.ReferencedData = nil
	badReference := appendVarintField(encodeMetaGraph(unreferenced), 5, 1)

	tests := []struct {
		name   string
		file   string
		data   []byte
		want   Format
		wantOK bool
	}{
		{"binary uff", "lenet5.uff", binary, FormatBinary, true},
		{"binary pb", "LENET5.PB", binary, FormatBinary, true},
		{"binary with wrong extension", "lenet5.onnx", binary, FormatUnknown, false},
		{"binary without graphs", "lenet5.uff", noGraphs, FormatUnknown, false},
		{"binary with scalar referenced_data", "lenet5.uff", badReference, FormatUnknown, false},
		{"binary garbage", "lenet5.uff", []byte{0xff, 0xff, 0xff}, FormatUnknown, false},
		{"empty", "lenet5.uff", nil, FormatUnknown, false},
		{"text pbtxt", "lenet5.pbtxt", []byte(lenetText), FormatText, true},
		{"text uff.txt", "lenet5.uff.txt", []byte(lenetText), FormatText, true},
		{"text with plain txt", "lenet5.txt", []byte(lenetText), FormatUnknown, false},
		{"text without descriptors", "model.pbtxt", []byte("version: 1\ngraphs { id: \"g\" }\n"), FormatUnknown, false},
		{"text in pb file", "lenet5.pb", []byte(lenetText), FormatUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Detect(tt.file, tt.data)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
