package spritefile

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/sprite-toolkit/pkg/errors"
)

func TestToJSONLayout(t *testing.T) {
	p := Blank(2, 2)
	p.Frames[1].SetNRGBA(1, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	data, err := ToJSON(p, true)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "\n  \"height\": 2"), "expected two-space indentation")

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, float64(2), doc["height"])
	assert.Equal(t, float64(2), doc["width"])
	assert.Equal(t, float64(2), doc["numberOfFrames"])

	frames := doc["frames"].(map[string]interface{})
	row0 := frames["frame1"].([]interface{})[0].([]interface{})
	assert.Equal(t, []interface{}{float64(0), float64(0), float64(0), float64(0)}, row0[0])
	assert.Equal(t, []interface{}{float64(10), float64(20), float64(30), float64(255)}, row0[1])
}

func TestParseJSONRestoresPixels(t *testing.T) {
	p := Blank(3, 3)
	p.Frames[0].SetNRGBA(0, 0, color.NRGBA{R: 255, A: 255})
	p.Frames[2].SetNRGBA(2, 1, color.NRGBA{R: 1, G: 2, B: 3, A: 128})

	data, err := ToJSON(p, false)
	require.NoError(t, err)

	got, err := ParseJSON(data)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Size)
	require.Len(t, got.Frames, 3)
	for i := range p.Frames {
		assert.Equal(t, p.Frames[i].Pix, got.Frames[i].Pix, "frame %d", i)
	}
}

func TestParseJSONRejects(t *testing.T) {
	px := `[0,0,0,0]`
	row := `[` + px + `]`
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{`},
		{"empty object", `{}`},
		{"array", `[]`},
		{"zero frames", `{"height":1,"width":1,"numberOfFrames":0,"frames":{}}`},
		{"not square", `{"height":1,"width":2,"numberOfFrames":1,"frames":{"frame0":[` + row + `]}}`},
		{"missing frame", `{"height":1,"width":1,"numberOfFrames":2,"frames":{"frame0":[` + row + `]}}`},
		{"short row", `{"height":1,"width":1,"numberOfFrames":1,"frames":{"frame0":[[]]}}`},
		{"too many rows", `{"height":1,"width":1,"numberOfFrames":1,"frames":{"frame0":[` + row + `,` + row + `]}}`},
		{"channel out of range", `{"height":1,"width":1,"numberOfFrames":1,"frames":{"frame0":[[[256,0,0,0]]]}}`},
		{"three channels", `{"height":1,"width":1,"numberOfFrames":1,"frames":{"frame0":[[[0,0,0]]]}}`},
		{"bad frame key", `{"height":1,"width":1,"numberOfFrames":1,"frames":{"frame0":[` + row + `],"layer1":[` + row + `]}}`},
		{"fractional size", `{"height":1.5,"width":1.5,"numberOfFrames":1,"frames":{"frame0":[` + row + `]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeMalformedProject), "got %v", err)
		})
	}
}

func TestParseJSONRejectsHugeCanvasWithoutPixels(t *testing.T) {
	// A few hundred kilobytes claiming a 131072x131072 canvas must fail
	// before any frame is allocated.
	data := hugeEmptyProject(131072)

	_, err := ParseJSON(data)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeMalformedProject), "got %v", err)
	e, ok := err.(*errors.Error)
	require.True(t, ok)
	assert.Equal(t, 0, e.Details["row"], "rejected on the first short row")
}

func hugeEmptyProject(size int) []byte {
	rows := strings.Repeat("[],", size-1) + "[]"
	return []byte(fmt.Sprintf(`{"height":%d,"width":%d,"numberOfFrames":1,"frames":{"frame0":[%s]}}`, size, size, rows))
}

func TestParseJSONIgnoresExtraFrames(t *testing.T) {
	row := `[[1,2,3,4]]`
	data := `{"height":1,"width":1,"numberOfFrames":1,"frames":{"frame0":[` + row + `],"frame1":[` + row + `]}}`
	p, err := ParseJSON([]byte(data))
	require.NoError(t, err)
	assert.Len(t, p.Frames, 1)
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 4}, p.Frames[0].NRGBAAt(0, 0))
}

func TestWithExtension(t *testing.T) {
	assert.Equal(t, "a.ssp", WithExtension("a"))
	assert.Equal(t, "a.ssp", WithExtension("a.ssp"))
	assert.Equal(t, "a.SSP", WithExtension("a.SSP"))
	assert.Equal(t, "a.json.ssp", WithExtension("a.json"))
}

func TestReadWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "walk.ssp")

	p := Blank(4, 2)
	p.Frames[1].SetNRGBA(3, 3, color.NRGBA{G: 200, A: 255})
	require.NoError(t, WriteFile(path, p))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, p.Frames[1].Pix, got.Frames[1].Pix)

	_, err = ReadFile(filepath.Join(dir, "missing.ssp"))
	assert.True(t, errors.Is(err, errors.ErrCodeIO))
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))
	_, err = ReadFile(path)
	assert.True(t, errors.Is(err, errors.ErrCodeMalformedProject))
}

func TestOpaquePixels(t *testing.T) {
	p := Blank(2, 1)
	assert.Equal(t, 0, OpaquePixels(p.Frames[0]))
	p.Frames[0].SetNRGBA(0, 1, color.NRGBA{A: 1})
	assert.Equal(t, 1, OpaquePixels(p.Frames[0]))
}
