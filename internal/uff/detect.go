package uff

import (
	"path/filepath"
	"strings"

	txtpb "github.com/protocolbuffers/txtpbfmt/parser"
	"google.golang.org/protobuf/encoding/protowire"
)

// Format identifies a UFF container encoding.
type Format string

// Supported containers.
const (
	FormatUnknown Format = ""
	FormatBinary  Format = "uff.pb"
	FormatText    Format = "uff.pbtxt"
)

// Detect guesses the container encoding from a file name and its contents.
func Detect(name string, data []byte) (Format, bool) {
	lower := strings.ToLower(name)
	extension := strings.TrimPrefix(filepath.Ext(lower), ".")
	if extension == "uff" || extension == "pb" {
		if matchBinaryTags(binaryTags(data)) {
			return FormatBinary, true
		}
	}
	if extension == "pbtxt" || strings.HasSuffix(lower, ".uff.txt") {
		tags := textTags(data)
		if tags["version"] && tags["descriptors"] && tags["graphs"] {
			return FormatText, true
		}
	}
	return FormatUnknown, false
}

// matchBinaryTags checks the MetaGraph layout: version and descriptor_core_version
// are varints, descriptors and graphs are messages, referenced_data is optional.
func matchBinaryTags(tags map[protowire.Number]protowire.Type) bool {
	if len(tags) == 0 {
		return false
	}
	want := map[protowire.Number]protowire.Type{
		1: protowire.VarintType,
		2: protowire.VarintType,
		3: protowire.BytesType,
		4: protowire.BytesType,
	}
	for num, typ := range want {
		if got, ok := tags[num]; !ok || got != typ {
			return false
		}
	}
	if typ, ok := tags[5]; ok && typ != protowire.BytesType {
		return false
	}
	return true
}

// binaryTags returns the wire type of the first occurrence of every top-level
// field. A malformed stream yields no tags.
func binaryTags(data []byte) map[protowire.Number]protowire.Type {
	tags := make(map[protowire.Number]protowire.Type)
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil
		}
		data = data[n:]
		n = protowire.ConsumeFieldValue(num, typ, data)
		if n < 0 {
			return nil
		}
		data = data[n:]
		if _, ok := tags[num]; !ok {
			tags[num] = typ
		}
	}
	return tags
}

// textTags returns the top-level field names of a text stream.
func textTags(data []byte) map[string]bool {
	nodes, err := txtpb.Parse(data)
	if err != nil {
		return nil
	}
	tags := make(map[string]bool)
	for _, n := range textFields(nodes) {
		tags[n.Name] = true
	}
	return tags
}
