package utils_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/mergington/activities-api/internal/utils"
)

func TestSendMessage(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return utils.SendMessage(c, "Signed up new@mergington.edu for Chess Club")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body utils.MessageResponse
	require.NoError(t, json.Unmarshal(payload, &body))
	require.Equal(t, "Signed up new@mergington.edu for Chess Club", body.Message)
}

func TestSendDetail(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return utils.SendDetail(c, fiber.StatusNotFound, "Activity not found")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body utils.DetailResponse
	require.NoError(t, json.Unmarshal(payload, &body))
	require.Equal(t, "Activity not found", body.Detail)
}

func TestSendDetailDefaultsText(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return utils.SendDetail(c, fiber.StatusBadRequest, "")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body utils.DetailResponse
	require.NoError(t, json.Unmarshal(payload, &body))
	require.Equal(t, "request failed", body.Detail)
}
