// Package stafftoken mints staff bearer tokens for kiosks and test clients.
package stafftoken

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"truida/internal/platform/config"
	"truida/internal/staffauth"
)

// Config holds flag and environment input for one token.
type Config struct {
	StaffID string
	Role    string
	TTL     time.Duration
	Auth    config.AuthConfig
}

// ParseConfig reads signing settings from the environment, then flags.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg.Auth); err != nil {
		return Config{}, err
	}
	cfg.Role = string(staffauth.RoleOfficer)
	cfg.TTL = cfg.Auth.StaffTokenTTL

	fs.StringVar(&cfg.StaffID, "staff", "", "staff identifier recorded in the access log (required)")
	fs.StringVar(&cfg.Role, "role", cfg.Role, "officer or supervisor")
	fs.DurationVar(&cfg.TTL, "ttl", cfg.TTL, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run signs the token and writes it to out.
func Run(cfg Config, out io.Writer) error {
	if out == nil {
		return errors.New("output is required")
	}
	if strings.TrimSpace(cfg.StaffID) == "" {
		return errors.New("-staff is required")
	}
	role := staffauth.Role(cfg.Role)
	if !role.IsValid() {
		return fmt.Errorf("unknown role %q", cfg.Role)
	}
	if cfg.TTL <= 0 {
		return errors.New("ttl must be positive")
	}

	svc := staffauth.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer)
	token, err := svc.GenerateStaffToken(strings.TrimSpace(cfg.StaffID), role, cfg.TTL)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
