package util

import (
	"encoding/json"
	"fmt"
	"os"
)

type Secrets struct {
	GuruFocusApiKey string    `json:"gurufocus"`
	Db              DbSecrets `json:"db"`
}

type DbSecrets struct {
	Host      string `json:"host"`
	User      string `json:"user"`
	Port      string `json:"port"`
	Password  string `json:"password"`
	Database  string `json:"database"`
	EnableSsl bool   `json:"enableSsl"`
}

func (t DbSecrets) ToConnectionStr() string {
	x := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s",
		t.Host, t.Port, t.User, t.Password, t.Database)
	if !t.EnableSsl {
		x += " sslmode=disable"
	}
	return x
}

func LoadSecrets() (*Secrets, error) {
	secretsFile := "secrets.json"
	if f := os.Getenv("SCREENER_SECRETS_FILE"); f != "" {
		secretsFile = f
	} else if os.Getenv("SCREENER_ENV") == "dev" {
		secretsFile = "secrets-dev.json"
	}

	data, err := os.ReadFile(secretsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read secrets file %s: %w", secretsFile, err)
	}

	secrets := Secrets{}
	err = json.Unmarshal(data, &secrets)
	if err != nil {
		return nil, fmt.Errorf("failed to parse secrets file %s: %w", secretsFile, err)
	}

	return &secrets, nil
}
