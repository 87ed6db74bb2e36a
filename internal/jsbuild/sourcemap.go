package jsbuild

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var errBadMappings = errors.New("malformed mappings")

// sourceMap holds the parts of a version 3 source map needed to recover
// renamed identifiers.
type sourceMap struct {
	Mappings string   `json:"mappings"`
	Names    []string `json:"names"`
}

// renamedIdents decodes the mappings of an esbuild source map for code and
// returns the segments that carry a name. esbuild only attaches a name to a
// segment when the printed identifier differs from the source one.
func renamedIdents(data []byte, code string) (map[int]string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var sm sourceMap
	if err := json.Unmarshal(data, &sm); err != nil {
		return nil, err
	}
	if len(sm.Names) == 0 {
		return nil, nil
	}

	renamed := make(map[int]string)
	lines := strings.Split(code, "\n")
	lineStart := 0
	name := 0
	for i, group := range strings.Split(sm.Mappings, ";") {
		if i > 0 && i-1 < len(lines) {
			lineStart += len(lines[i-1]) + 1
		}
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		col := columns{line: line}
		genCol := 0
		for _, seg := range strings.Split(group, ",") {
			if seg == "" {
				continue
			}
			fields, err := decodeVLQ(seg)
			if err != nil {
				return nil, err
			}
			switch len(fields) {
			case 1, 4:
			case 5:
				name += fields[4]
			default:
				return nil, fmt.Errorf("%w: segment %q has %d fields", errBadMappings, seg, len(fields))
			}
			genCol += fields[0]
			if len(fields) < 5 {
				continue
			}
			if name < 0 || name >= len(sm.Names) {
				return nil, fmt.Errorf("%w: name index %d out of range", errBadMappings, name)
			}
			renamed[lineStart+col.offset(genCol)] = sm.Names[name]
		}
	}
	return renamed, nil
}

// columns converts increasing UTF-16 columns on one line to byte offsets.
type columns struct {
	line  string
	units int
	bytes int
}

func (c *columns) offset(col int) int {
	for c.units < col && c.bytes < len(c.line) {
		r, size := utf8.DecodeRuneInString(c.line[c.bytes:])
		c.bytes += size
		c.units++
		if r >= 0x10000 {
			c.units++
		}
	}
	return c.bytes
}

const base64Digits = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// decodeVLQ decodes every base64 VLQ value in seg.
func decodeVLQ(seg string) ([]int, error) {
	var values []int
	value, shift := 0, 0
	for i := 0; i < len(seg); i++ {
		digit := strings.IndexByte(base64Digits, seg[i])
		if digit < 0 {
			return nil, fmt.Errorf("%w: invalid character %q", errBadMappings, seg[i])
		}
		value |= (digit & 31) << shift
		if digit&32 != 0 {
			shift += 5
			continue
		}
		if value&1 != 0 {
			value = -(value >> 1)
		} else {
			value >>= 1
		}
		values = append(values, value)
		value, shift = 0, 0
	}
	if shift != 0 {
		return nil, fmt.Errorf("%w: truncated value in %q", errBadMappings, seg)
	}
	return values, nil
}
