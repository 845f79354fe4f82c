package ui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/pagao/pagao/client"
)

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " is required")
		}
		return nil
	}
}

func validEmail(s string) error {
	if err := required("email")(s); err != nil {
		return err
	}
	if !strings.Contains(s, "@") {
		return errors.New("not an email address")
	}
	return nil
}

// AskCredentials prompts for whatever part of creds is still empty
func AskCredentials(creds client.Credentials) (client.Credentials, error) {
	var fields []huh.Field
	if creds.Email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(&creds.Email).Validate(validEmail))
	}
	if creds.Password == "" {
		fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).
			Value(&creds.Password).Validate(required("password")))
	}
	if len(fields) == 0 {
		return creds, nil
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return client.Credentials{}, err
	}
	creds.Email = strings.TrimSpace(creds.Email)
	return creds, nil
}

// AskRegistration prompts for whatever part of reg is still empty
func AskRegistration(reg client.Registration) (client.Registration, error) {
	var fields []huh.Field
	if reg.Name == "" {
		fields = append(fields, huh.NewInput().Title("Name").Value(&reg.Name).Validate(required("name")))
	}
	if reg.Email == "" {
		fields = append(fields, huh.NewInput().Title("Email").Value(&reg.Email).Validate(validEmail))
	}
	if reg.Password == "" {
		fields = append(fields, huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).
			Value(&reg.Password).Validate(required("password")))
	}
	if len(fields) == 0 {
		return reg, nil
	}

	if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
		return client.Registration{}, err
	}
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	return reg, nil
}

// Prompter asks the user through huh forms
type Prompter struct{}

// SelectMember implements the command prompter
func (Prompter) SelectMember(title string, members []client.Member) (client.Member, error) {
	return SelectMember(title, members)
}

// Credentials implements the command prompter
func (Prompter) Credentials(creds client.Credentials) (client.Credentials, error) {
	return AskCredentials(creds)
}

// Registration implements the command prompter
func (Prompter) Registration(reg client.Registration) (client.Registration, error) {
	return AskRegistration(reg)
}
