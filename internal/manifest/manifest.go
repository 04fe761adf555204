package manifest

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hydrosmart/reporter/internal/validator"
)

type Icon struct {
	Src   string `json:"src"   validate:"required,startswith=/"`
	Sizes string `json:"sizes" validate:"required"`
	Type  string `json:"type"  validate:"required"`
}

// Installable web app manifest
type Manifest struct {
	Name            string `json:"name"             validate:"required"`
	ShortName       string `json:"short_name"       validate:"required,max=12"`
	Description     string `json:"description"`
	ThemeColor      string `json:"theme_color"      validate:"required,hexcolor"`
	BackgroundColor string `json:"background_color" validate:"required,hexcolor"`
	Display         string `json:"display"          validate:"required,oneof=fullscreen standalone minimal-ui browser"`
	Orientation     string `json:"orientation"      validate:"omitempty,oneof=any natural landscape portrait"`
	StartURL        string `json:"start_url"        validate:"required"`
	Icons           []Icon `json:"icons"            validate:"required,min=1,dive"`
}

func Default() Manifest {
	return Manifest{
		Name:            "HydroSmart",
		ShortName:       "HydroSmart",
		Description:     "HydroSmart",
		ThemeColor:      "#ffffff",
		BackgroundColor: "#ffffff",
		Display:         "standalone",
		Orientation:     "portrait",
		StartURL:        "/",
		Icons: []Icon{
			{Src: "/pwa-192x192.png", Sizes: "192x192", Type: "image/png"},
			{Src: "/driver512.png", Sizes: "512x512", Type: "image/png"},
		},
	}
}

func (m Manifest) Validate() error {
	v := validator.Create()
	if err := v.Validate(m); err != nil {
		return fmt.Errorf("invalid manifest: %w", err)
	}
	return nil
}

// Reads a manifest override. The document has to satisfy Schema before it is
// decoded.
func Load(r io.Reader) (Manifest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Manifest{}, fmt.Errorf("failed to read manifest: %w", err)
	}
	if err := validateSchema(data); err != nil {
		return Manifest{}, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("failed to decode manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Validates m and writes it as indented JSON
func (m Manifest) Write(w io.Writer) error {
	if err := m.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := validateSchema(data); err != nil {
		return err
	}

	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
