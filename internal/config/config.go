package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds everything site-specific: the print server, the SMB domain,
// and the paths handed to the spooler.
type Config struct {
	Server         string `yaml:"server"`
	Domain         string `yaml:"domain"`
	PPD            string `yaml:"ppd"`
	TestPage       string `yaml:"test_page"`
	UsernamePrefix string `yaml:"username_prefix"`
	UsernameFile   string `yaml:"username_file"`
	Listen         string `yaml:"listen"`
}

const systemPath = "/etc/auprint.yaml"

func Default() Config {
	return Config{
		Server:         "print.uni.au.dk",
		Domain:         "uni",
		PPD:            "/usr/share/ppd/cupsfilters/Generic-PDF_Printer-PDF.ppd",
		TestPage:       "/usr/share/cups/data/testprint",
		UsernamePrefix: "au",
		UsernameFile:   defaultUsernameFile(),
		Listen:         ":8631",
	}
}

// Load reads the configuration from path when given, otherwise from the
// user config directory, otherwise from /etc/auprint.yaml. A missing file is
// not an error; defaults apply to every field left unset.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		if userPath, err := userConfigPath(); err == nil {
			if _, statErr := os.Stat(userPath); statErr == nil {
				path = userPath
			}
		}
		if path == "" {
			if _, err := os.Stat(systemPath); err == nil {
				path = systemPath
			}
		}
	}
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, err
	}

	d := Default()
	if cfg.Server == "" {
		cfg.Server = d.Server
	}
	if cfg.Domain == "" {
		cfg.Domain = d.Domain
	}
	if cfg.PPD == "" {
		cfg.PPD = d.PPD
	}
	if cfg.TestPage == "" {
		cfg.TestPage = d.TestPage
	}
	if cfg.UsernamePrefix == "" {
		cfg.UsernamePrefix = d.UsernamePrefix
	}
	if cfg.UsernameFile == "" {
		cfg.UsernameFile = d.UsernameFile
	}
	if cfg.Listen == "" {
		cfg.Listen = d.Listen
	}
	return cfg, nil
}

func userConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "auprint", "config.yaml"), nil
}

func defaultUsernameFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "auid.txt"
	}
	return filepath.Join(dir, "auprint", "auid.txt")
}
