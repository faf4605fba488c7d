package config

import (
	"errors"
	"fmt"
	"os"

	"dsc_team/internal/domain/model"

	"gopkg.in/yaml.v3"
)

// LoadClubInfo reads club metadata from a YAML file. A missing file yields
// the built-in defaults; keys absent from the file keep their default value.
func LoadClubInfo(path string) (model.ClubInfo, error) {
	info := model.DefaultClubInfo()
	if path == "" {
		return info, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return info, nil
		}
		return info, fmt.Errorf("failed to read club info file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &info); err != nil {
		return model.DefaultClubInfo(), fmt.Errorf("failed to parse club info file %s: %w", path, err)
	}
	return info, nil
}
