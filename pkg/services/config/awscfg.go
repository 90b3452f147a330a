package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/ini.v1"
)

const DefaultProfile = "default"

// Registry lists the named profiles of the shared AWS config and credentials files.
type Registry interface {
	GetProfiles(ctx context.Context) ([]string, error)
	GetRegion(ctx context.Context, profile string) (string, error)
}

type cfgRegistry struct {
	cfg *ini.File
}

// SharedFiles returns the shared config and credentials paths, honouring the
// AWS_CONFIG_FILE and AWS_SHARED_CREDENTIALS_FILE overrides.
func SharedFiles() ([]string, error) {
	configPath := os.Getenv("AWS_CONFIG_FILE")
	credentialsPath := os.Getenv("AWS_SHARED_CREDENTIALS_FILE")
	if configPath == "" || credentialsPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		if configPath == "" {
			configPath = filepath.Join(home, ".aws", "config")
		}
		if credentialsPath == "" {
			credentialsPath = filepath.Join(home, ".aws", "credentials")
		}
	}
	return []string{configPath, credentialsPath}, nil
}

// NewRegistry loads every given file; missing files are skipped.
func NewRegistry(paths ...string) (Registry, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no AWS config files given")
	}
	others := make([]any, 0, len(paths)-1)
	for _, p := range paths[1:] {
		others = append(others, p)
	}
	cfg, err := ini.LooseLoad(paths[0], others...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config files: %w", err)
	}
	return &cfgRegistry{cfg: cfg}, nil
}

func (cr *cfgRegistry) GetProfiles(_ context.Context) ([]string, error) {
	var profiles []string
	for _, section := range cr.cfg.Sections() {
		if section.Name() == ini.DefaultSection || len(section.Keys()) == 0 {
			continue
		}
		name := profileName(section.Name())
		if !slices.Contains(profiles, name) {
			profiles = append(profiles, name)
		}
	}
	if len(profiles) == 0 {
		return []string{DefaultProfile}, nil
	}
	slices.Sort(profiles)
	return profiles, nil
}

func (cr *cfgRegistry) GetRegion(_ context.Context, profile string) (string, error) {
	for _, name := range []string{"profile " + profile, profile} {
		section, err := cr.cfg.GetSection(name)
		if err != nil {
			continue
		}
		if region := section.Key("region").String(); region != "" {
			return region, nil
		}
	}
	return "", fmt.Errorf("profile %s has no region", profile)
}

// profileName strips the "profile " prefix used by named sections in ~/.aws/config.
func profileName(section string) string {
	return strings.TrimSpace(strings.TrimPrefix(section, "profile "))
}
