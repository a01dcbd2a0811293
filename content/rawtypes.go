package content

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// flexString accepts a JSON string, number or boolean.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	if b[0] == '{' || b[0] == '[' {
		*f = ""
		return nil
	}
	*f = flexString(string(b))
	return nil
}

// flexInt accepts a number or a numeric string. Valid is false when absent or
// unparsable.
type flexInt struct {
	Value int
	Valid bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	if s == "" {
		*f = flexInt{}
		return nil
	}
	n, err := strconv.ParseFloat(string(s), 64)
	if err != nil {
		*f = flexInt{}
		return nil
	}
	*f = flexInt{Value: int(n), Valid: true}
	return nil
}

func (f flexInt) ptr() *int {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// flexBool accepts true/false, "true"/"false", "yes"/"no" and 1/0.
type flexBool struct {
	Value bool
	Set   bool
}

func (f *flexBool) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	switch strings.ToLower(string(s)) {
	case "true", "yes", "1":
		*f = flexBool{Value: true, Set: true}
	case "false", "no", "0":
		*f = flexBool{Value: false, Set: true}
	default:
		*f = flexBool{}
	}
	return nil
}

// flexStrings accepts a single string or a list of scalars.
type flexStrings []string

func (f *flexStrings) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = nil
		return nil
	}
	if b[0] == '[' {
		var items []flexString
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, string(it))
		}
		*f = out
		return nil
	}
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	if s == "" {
		*f = nil
		return nil
	}
	*f = flexStrings{string(s)}
	return nil
}

// imageRef is an image given either as a bare URL string or as an object
// with a src or with storage coordinates.
type imageRef struct {
	Src        string
	Alt        string
	Caption    string
	Bucket     string
	Path       string
	Label      string
	MimeType   string
	SizeBytes  *int64
	OrderIndex *int
}

func (r *imageRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] != '{' {
		var s flexString
		if err := s.UnmarshalJSON(b); err != nil {
			return err
		}
		*r = imageRef{Src: string(s)}
		return nil
	}
	var obj struct {
		Src        flexString `json:"src"`
		URL        flexString `json:"url"`
		Alt        flexString `json:"alt"`
		Caption    flexString `json:"caption"`
		Bucket     flexString `json:"bucket"`
		Path       flexString `json:"path"`
		Label      flexString `json:"label"`
		MimeType   flexString `json:"mimeType"`
		SizeBytes  flexInt    `json:"sizeBytes"`
		OrderIndex flexInt    `json:"orderIndex"`
		Storage    *struct {
			Bucket    flexString `json:"bucket"`
			Path      flexString `json:"path"`
			Label     flexString `json:"label"`
			MimeType  flexString `json:"mimeType"`
			SizeBytes flexInt    `json:"sizeBytes"`
		} `json:"storage"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	*r = imageRef{
		Src:        firstNonEmpty(string(obj.Src), string(obj.URL)),
		Alt:        string(obj.Alt),
		Caption:    string(obj.Caption),
		Bucket:     string(obj.Bucket),
		Path:       string(obj.Path),
		Label:      string(obj.Label),
		MimeType:   string(obj.MimeType),
		OrderIndex: obj.OrderIndex.ptr(),
	}
	if obj.SizeBytes.Valid {
		size := int64(obj.SizeBytes.Value)
		r.SizeBytes = &size
	}
	if s := obj.Storage; s != nil {
		r.Bucket = firstNonEmpty(r.Bucket, string(s.Bucket))
		r.Path = firstNonEmpty(r.Path, string(s.Path))
		r.Label = firstNonEmpty(r.Label, string(s.Label))
		r.MimeType = firstNonEmpty(r.MimeType, string(s.MimeType))
		if r.SizeBytes == nil && s.SizeBytes.Valid {
			size := int64(s.SizeBytes.Value)
			r.SizeBytes = &size
		}
	}
	return nil
}

// toImage resolves the reference. It returns false when no source is left.
func (r imageRef) toImage(assets AssetResolver) (ProjectImage, bool) {
	src := r.Src
	if src == "" && r.Path != "" {
		src = assets.ResolveURL(r.Bucket, r.Path)
	}
	if src == "" {
		return ProjectImage{}, false
	}
	img := ProjectImage{Src: src, Alt: r.Alt, Caption: r.Caption}
	if r.Path != "" {
		img.Storage = &StorageDescriptor{
			Bucket:    r.Bucket,
			Path:      r.Path,
			Label:     r.Label,
			MimeType:  r.MimeType,
			SizeBytes: r.SizeBytes,
		}
	}
	return img, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
