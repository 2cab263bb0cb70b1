// Package spritefile reads and writes sprite projects (.ssp files).
//
// A project is stored as JSON:
//
//	{ "height": N, "width": N, "numberOfFrames": K,
//	  "frames": { "frame0": [[[R,G,B,A], ...], ...], ... } }
//
// Rows are stored top to bottom, pixels left to right, with unpremultiplied
// 0-255 channels.
package spritefile

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"

	"github.com/ha1tch/sprite-toolkit/pkg/errors"
)

// Extension is the file extension of sprite projects.
const Extension = ".ssp"

// Project is a decoded sprite project. Every frame is Size x Size.
type Project struct {
	Size   int
	Frames []*image.NRGBA
}

// jsonProject is the JSON representation of a project.
type jsonProject struct {
	Height         int                   `json:"height"`
	Width          int                   `json:"width"`
	NumberOfFrames int                   `json:"numberOfFrames"`
	Frames         map[string][][][4]int `json:"frames"`
}

func frameKey(i int) string {
	return fmt.Sprintf("frame%d", i)
}

// Blank returns a project of frames transparent frames.
func Blank(size, frames int) *Project {
	if frames < 1 {
		frames = 1
	}
	p := &Project{Size: size}
	for i := 0; i < frames; i++ {
		p.Frames = append(p.Frames, image.NewNRGBA(image.Rect(0, 0, size, size)))
	}
	return p
}

// ParseJSON parses and validates a project. Any failure is reported as a
// MALFORMED_PROJECT error.
func ParseJSON(data []byte) (*Project, error) {
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMalformedProject, "invalid JSON")
	}
	v, err := validator()
	if err != nil {
		return nil, err
	}
	if err := v.Validate(doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMalformedProject, "project does not match schema")
	}

	var j jsonProject
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMalformedProject, "invalid project")
	}
	if j.Width != j.Height {
		return nil, errors.MalformedProject("canvas is not square").
			WithDetail("width", j.Width).
			WithDetail("height", j.Height)
	}

	size := j.Height
	p := &Project{Size: size}
	for i := 0; i < j.NumberOfFrames; i++ {
		rows, ok := j.Frames[frameKey(i)]
		if !ok {
			return nil, errors.MalformedProject("missing frame").WithDetail("frame", i)
		}
		img, err := decodeFrame(rows, size)
		if err != nil {
			return nil, err.WithDetail("frame", i)
		}
		p.Frames = append(p.Frames, img)
	}
	return p, nil
}

func decodeFrame(rows [][][4]int, size int) (*image.NRGBA, *errors.Error) {
	if len(rows) != size {
		return nil, errors.MalformedProject("wrong row count").WithDetail("rows", len(rows))
	}
	// The image is only allocated once the document holds every pixel.
	for y, row := range rows {
		if len(row) != size {
			return nil, errors.MalformedProject("wrong row length").
				WithDetail("row", y).
				WithDetail("length", len(row))
		}
	}
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y, row := range rows {
		for x, px := range row {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(px[0]), G: uint8(px[1]), B: uint8(px[2]), A: uint8(px[3])})
		}
	}
	return img, nil
}

// ToJSON converts a project to JSON.
func ToJSON(p *Project, pretty bool) ([]byte, error) {
	j := jsonProject{
		Height:         p.Size,
		Width:          p.Size,
		NumberOfFrames: len(p.Frames),
		Frames:         make(map[string][][][4]int, len(p.Frames)),
	}
	for i, img := range p.Frames {
		rows := make([][][4]int, p.Size)
		for y := 0; y < p.Size; y++ {
			row := make([][4]int, p.Size)
			for x := 0; x < p.Size; x++ {
				c := img.NRGBAAt(img.Rect.Min.X+x, img.Rect.Min.Y+y)
				row[x] = [4]int{int(c.R), int(c.G), int(c.B), int(c.A)}
			}
			rows[y] = row
		}
		j.Frames[frameKey(i)] = rows
	}

	if pretty {
		return json.MarshalIndent(j, "", "  ")
	}
	return json.Marshal(j)
}

// OpaquePixels counts the pixels of img with non-zero alpha.
func OpaquePixels(img *image.NRGBA) int {
	n := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			n++
		}
	}
	return n
}
