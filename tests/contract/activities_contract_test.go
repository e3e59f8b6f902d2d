package contract_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/mergington/activities-api/internal/handler"
	"github.com/mergington/activities-api/internal/models"
	"github.com/mergington/activities-api/internal/repository"
	"github.com/mergington/activities-api/internal/service"
)

func TestActivitiesListingContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "activities.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	repo := repository.NewRosterRepository(models.Roster{
		"Chess Club": {
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		"Empty Activity": {
			Description:     "An activity with no participants",
			Schedule:        "Empty schedule",
			MaxParticipants: 10,
			Participants:    []string{},
		},
	})
	svc := service.NewRosterService(repo, validator.New(), nil, 0, nil, zerolog.Nop())

	app := fiber.New()
	handler.NewActivityHandler(svc, validator.New(), zerolog.Nop()).Register(app.Group("/activities"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/activities", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var document interface{}
	require.NoError(t, json.Unmarshal(payload, &document))
	require.NoError(t, schema.Validate(document))
}
