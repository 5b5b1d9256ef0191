package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewActorsCommand(t *testing.T) {
	cmd := NewActorsCommand()
	assert.Equal(t, "actors", cmd.Use)
	assert.Equal(t, []string{"actor"}, cmd.Aliases)

	var names []string
	for _, subcmd := range cmd.Commands() {
		names = append(names, subcmd.Name())
	}

	assert.Contains(t, names, "list")
	assert.Contains(t, names, "get")
	assert.Contains(t, names, "start")
	assert.Contains(t, names, "delete")
}

func TestNewRunsCommand(t *testing.T) {
	cmd := NewRunsCommand()
	assert.Equal(t, "runs", cmd.Use)

	var names []string
	for _, subcmd := range cmd.Commands() {
		names = append(names, subcmd.Name())
	}

	assert.Contains(t, names, "list")
	assert.Contains(t, names, "get")
	assert.Contains(t, names, "abort")
	assert.Contains(t, names, "resurrect")
	assert.Contains(t, names, "wait")
	assert.Contains(t, names, "log")
}

func TestNewDatasetsCommand(t *testing.T) {
	cmd := NewDatasetsCommand()
	assert.Equal(t, "datasets", cmd.Use)
	assert.Contains(t, cmd.Aliases, "ds")

	var names []string
	for _, subcmd := range cmd.Commands() {
		names = append(names, subcmd.Name())
	}

	assert.Contains(t, names, "items")
	assert.Contains(t, names, "push")
	assert.Contains(t, names, "download")
}

func TestNewKeyValueStoresCommand(t *testing.T) {
	cmd := NewKeyValueStoresCommand()
	assert.Equal(t, "key-value-stores", cmd.Use)
	assert.Contains(t, cmd.Aliases, "kvs")

	var names []string
	for _, subcmd := range cmd.Commands() {
		names = append(names, subcmd.Name())
	}

	assert.Contains(t, names, "keys")
	assert.Contains(t, names, "get-record")
	assert.Contains(t, names, "set-record")
	assert.Contains(t, names, "delete-record")
}

func TestNewRequestQueuesCommand(t *testing.T) {
	cmd := NewRequestQueuesCommand()
	assert.Equal(t, "request-queues", cmd.Use)

	var names []string
	for _, subcmd := range cmd.Commands() {
		names = append(names, subcmd.Name())
	}

	assert.Contains(t, names, "head")
	assert.Contains(t, names, "add-request")
}

func TestNewSchedulesCommand(t *testing.T) {
	cmd := NewSchedulesCommand()
	assert.Equal(t, "schedules", cmd.Use)
	assert.Len(t, cmd.Commands(), 4)
}

func TestNewWebhooksCommand(t *testing.T) {
	cmd := NewWebhooksCommand()
	assert.Equal(t, "webhooks", cmd.Use)

	var names []string
	for _, subcmd := range cmd.Commands() {
		names = append(names, subcmd.Name())
	}

	assert.Contains(t, names, "create")
	assert.Contains(t, names, "dispatches")
}

func TestNewUsersCommand(t *testing.T) {
	cmd := NewUsersCommand()
	assert.Equal(t, "users", cmd.Use)

	var names []string
	for _, subcmd := range cmd.Commands() {
		names = append(names, subcmd.Name())
	}

	assert.Contains(t, names, "me")
	assert.Contains(t, names, "usage")
}

func TestSchedulesCreateRequiresCron(t *testing.T) {
	cmd := newSchedulesCreateCommand()

	err := cmd.RunE(cmd, nil)
	assert.ErrorIs(t, err, ErrScheduleCronFlag)
}

func TestWebhooksCreateRequiresURL(t *testing.T) {
	cmd := newWebhooksCreateCommand()

	err := cmd.RunE(cmd, nil)
	assert.ErrorIs(t, err, ErrWebhookURLFlag)
}

func TestWebhooksCreateRequiresEventTypes(t *testing.T) {
	cmd := newWebhooksCreateCommand()
	assert.NoError(t, cmd.Flags().Set("url", "https://hooks.example.com/run-finished"))

	err := cmd.RunE(cmd, nil)
	assert.ErrorIs(t, err, ErrWebhookEventTypesFlag)
}

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand("1.2.3", "abc123", "2024-01-01")
	assert.Equal(t, "version", cmd.Use)
	assert.NotNil(t, cmd.RunE)
}
