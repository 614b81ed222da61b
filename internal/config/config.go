package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"etmmbot/internal/group"
)

// Database connection settings from the [database] section
type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Connection string in the key=value format understood by pgx
func (db Database) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		db.Host, db.Port, db.User, db.Password, db.Name, db.SSLMode,
	)
}

// Discord settings from the [discord] section
type Discord struct {
	Token  string
	Prefix string
	Resync time.Duration
}

// Bot configuration as read from the configuration file
type Config struct {
	Database Database
	Discord  Discord
	Groups   group.Catalog
}

const (
	sectionNone     = ""
	sectionDatabase = "[database]"
	sectionDiscord  = "[discord]"
	sectionGroups   = "[mm-groups]"
)

// Read and parse the configuration file at the provided path
func Load(path string) (Config, error) {

	file, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("could not open configuration file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse the flat configuration format. Sections are introduced by a line
// exactly equal to [section-name]. Settings sections hold key: value lines,
// and every non-header line inside [mm-groups] is a group definition.
//
// The parser is strict where older versions of this bot were lenient:
// content before the first header is rejected, and only literally empty
// lines are skipped, so a whitespace-only line inside [mm-groups] is a
// malformed group line
func Parse(r io.Reader) (Config, error) {

	var cfg Config
	cfg.Groups = group.NewCatalog()

	section := sectionNone
	lineno := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		lineno++

		// Section headers are never data, not even inside [mm-groups]
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = line
			continue
		}
		if line == "" {
			continue
		}

		var err error
		switch section {
		case sectionDatabase:
			err = cfg.parseDatabaseLine(line)
		case sectionDiscord:
			err = cfg.parseDiscordLine(line)
		case sectionGroups:
			err = cfg.parseGroupLine(line)
		default:
			err = ErrUnknownSection
		}
		if err != nil {
			return Config{}, &ParseError{Reason: err, Line: lineno, Text: line}
		}
	}
	if err := scanner.Err(); err != nil {
		return Config{}, fmt.Errorf("could not read configuration: %w", err)
	}

	if err := cfg.verify(); err != nil {
		return Config{}, err
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (cfg *Config) parseDatabaseLine(line string) error {

	key, value, err := splitKeyValue(line)
	if err != nil {
		return err
	}
	switch key {
	case "host":
		cfg.Database.Host = value
	case "port":
		cfg.Database.Port = value
	case "user":
		cfg.Database.User = value
	case "password":
		cfg.Database.Password = value
	case "dbname":
		cfg.Database.Name = value
	case "sslmode":
		cfg.Database.SSLMode = value
	default:
		return fmt.Errorf("%w in database section: %s", ErrUnknownKey, key)
	}
	return nil
}

func (cfg *Config) parseDiscordLine(line string) error {

	key, value, err := splitKeyValue(line)
	if err != nil {
		return err
	}
	switch key {
	case "token":
		cfg.Discord.Token = value
	case "prefix":
		cfg.Discord.Prefix = value
	case "resync":
		resync, err := time.ParseDuration(value)
		if err != nil || resync < 0 {
			return fmt.Errorf("%w for resync: %s", ErrInvalidValue, value)
		}
		cfg.Discord.Resync = resync
	default:
		return fmt.Errorf("%w in discord section: %s", ErrUnknownKey, key)
	}
	return nil
}

// Parse a group definition line of the form
// <group-name> : <team>:<count>, <team>:<count>, ...
func (cfg *Config) parseGroupLine(line string) error {

	name, remainder, found := strings.Cut(line, ":")
	if !found {
		return ErrMalformedGroupLine
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrMalformedGroupLine
	}

	teams := map[string]int{}
	for _, token := range strings.Split(remainder, ",") {
		label, count, found := strings.Cut(token, ":")
		if !found {
			return fmt.Errorf("%w: %s", ErrMalformedTeamToken, strings.TrimSpace(token))
		}
		label = strings.TrimSpace(label)
		if label == "" {
			return fmt.Errorf("%w: %s", ErrMalformedTeamToken, strings.TrimSpace(token))
		}
		if _, ok := teams[label]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateTeamLabel, label)
		}
		players, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil || players <= 0 {
			return fmt.Errorf("%w for team %s: %s", ErrInvalidTeamCount, label, strings.TrimSpace(count))
		}
		teams[label] = players
	}

	definition, err := group.New(name, teams)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedGroupLine, err)
	}
	if err := cfg.Groups.Add(definition); err != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateGroupName, name)
	}
	return nil
}

// Split a settings line once on the first colon
func splitKeyValue(line string) (string, string, error) {
	key, value, found := strings.Cut(line, ":")
	if !found {
		return "", "", ErrMalformedSettingsLine
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), nil
}

func (cfg *Config) verify() error {

	if cfg.Database.Host == "" {
		return fmt.Errorf("database information: host not in configuration file")
	}
	if cfg.Database.User == "" {
		return fmt.Errorf("database information: user not in configuration file")
	}
	// The discord token may arrive through the environment instead,
	// so its presence is checked after the environment is merged in
	if cfg.Groups.Len() == 0 {
		return &ParseError{Reason: ErrEmptyCatalog}
	}
	return nil
}

func (cfg *Config) applyDefaults() {

	if cfg.Database.Port == "" {
		cfg.Database.Port = "5432"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = cfg.Database.User
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Discord.Prefix == "" {
		cfg.Discord.Prefix = "!"
	}
}
