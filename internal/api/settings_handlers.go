package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/pixelvault/pixelvault-server/internal/domain"
)

func (s *Server) registerSettingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSetting",
		Method:      http.MethodGet,
		Path:        "/api/v1/settings/{key}",
		Summary:     "Get setting",
		Description: "Returns a setting value by key",
		Tags:        []string{"Settings"},
	}, s.handleGetSetting)

	huma.Register(s.api, huma.Operation{
		OperationID: "setSetting",
		Method:      http.MethodPut,
		Path:        "/api/v1/settings/{key}",
		Summary:     "Set setting",
		Description: "Stores a setting value, replacing any previous value",
		Tags:        []string{"Settings"},
	}, s.handleSetSetting)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteSetting",
		Method:      http.MethodDelete,
		Path:        "/api/v1/settings/{key}",
		Summary:     "Delete setting",
		Description: "Removes a setting",
		Tags:        []string{"Settings"},
	}, s.handleDeleteSetting)
}

// === DTOs ===

// SettingResponse contains setting data in API responses.
type SettingResponse struct {
	Key       string          `json:"key" doc:"Setting key"`
	Value     json.RawMessage `json:"value" doc:"Setting value, arbitrary JSON"`
	UpdatedAt time.Time       `json:"updated_at" doc:"Last update time"`
}

func settingResponse(setting *domain.Setting) SettingResponse {
	return SettingResponse{
		Key:       setting.Key,
		Value:     setting.Value,
		UpdatedAt: setting.UpdatedAt,
	}
}

// SettingOutput wraps the setting response for Huma.
type SettingOutput struct {
	Body SettingResponse
}

// GetSettingInput contains parameters for getting a setting.
type GetSettingInput struct {
	Key string `path:"key" doc:"Setting key"`
}

// SetSettingRequest is the request body for storing a setting.
type SetSettingRequest struct {
	Value json.RawMessage `json:"value" doc:"Setting value, arbitrary JSON"`
}

// SetSettingInput wraps the set setting request for Huma.
type SetSettingInput struct {
	Key  string `path:"key" doc:"Setting key"`
	Body SetSettingRequest
}

// === Handlers ===

func (s *Server) handleGetSetting(ctx context.Context, input *GetSettingInput) (*SettingOutput, error) {
	setting, found, err := s.services.Settings.GetSetting(ctx, input.Key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, huma.Error404NotFound("Setting not found")
	}

	return &SettingOutput{Body: settingResponse(setting)}, nil
}

func (s *Server) handleSetSetting(ctx context.Context, input *SetSettingInput) (*SettingOutput, error) {
	setting, err := s.services.Settings.SetSetting(ctx, input.Key, input.Body.Value)
	if err != nil {
		return nil, err
	}

	return &SettingOutput{Body: settingResponse(setting)}, nil
}

func (s *Server) handleDeleteSetting(ctx context.Context, input *GetSettingInput) (*MessageOutput, error) {
	if err := s.services.Settings.DeleteSetting(ctx, input.Key); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Setting deleted"}}, nil
}
