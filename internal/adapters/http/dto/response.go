// Package dto holds the JSON shapes of the HTTP API and the RFC 9457 problem
// responses.
package dto

import (
	"github.com/jsamuelsen11/mutations/internal/mutation"
	"github.com/jsamuelsen11/mutations/internal/ports"
)

// FieldResponse describes one declared field.
type FieldResponse struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Required bool   `json:"required"`
	Default  any    `json:"default,omitempty"`
}

// MutationResponse describes a served mutation.
type MutationResponse struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Fields      []FieldResponse `json:"fields"`
}

// MutationListResponse is the body of GET /api/v1/mutations.
type MutationListResponse struct {
	Mutations []MutationResponse `json:"mutations"`
	Count     int                `json:"count"`
}

// RunResponse is the body of a run call that reached a result.
type RunResponse struct {
	Success     bool              `json:"success"`
	Errors      map[string]string `json:"errors,omitempty"`
	ReturnValue any               `json:"return_value"`
}

// ValidateResponse is the body of a validate call that reached a result.
type ValidateResponse struct {
	IsValid bool              `json:"is_valid"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// BatchItemResponse is one outcome of a batch. Exactly one of Result and
// Error is set.
type BatchItemResponse struct {
	Mutation string         `json:"mutation"`
	Status   int            `json:"status"`
	Result   *RunResponse   `json:"result,omitempty"`
	Error    *ErrorResponse `json:"error,omitempty"`
}

// BatchResponse is the body of POST /api/v1/batch.
type BatchResponse struct {
	Results   []BatchItemResponse `json:"results"`
	Succeeded int                 `json:"succeeded"`
	Failed    int                 `json:"failed"`
}

// ToMutationResponse converts a service description.
func ToMutationResponse(info ports.MutationInfo) MutationResponse {
	resp := MutationResponse{
		Name:        info.Name,
		Description: info.Description,
		Fields:      make([]FieldResponse, len(info.Fields)),
	}
	for i, f := range info.Fields {
		resp.Fields[i] = FieldResponse{Name: f.Name, Kind: f.Kind, Required: f.Required}
		if f.HasDefault {
			resp.Fields[i].Default = f.Default
		}
	}
	return resp
}

// ToMutationListResponse converts a service listing.
func ToMutationListResponse(infos []ports.MutationInfo) MutationListResponse {
	resp := MutationListResponse{Mutations: make([]MutationResponse, len(infos)), Count: len(infos)}
	for i, info := range infos {
		resp.Mutations[i] = ToMutationResponse(info)
	}
	return resp
}

// ToRunResponse converts a run result.
func ToRunResponse(res *mutation.Result) RunResponse {
	return RunResponse{Success: res.Success, Errors: res.Errors.Map(), ReturnValue: res.ReturnValue}
}

// ToValidateResponse converts a validation result.
func ToValidateResponse(res *mutation.ValidationResult) ValidateResponse {
	return ValidateResponse{IsValid: res.IsValid, Errors: res.Errors.Map()}
}
