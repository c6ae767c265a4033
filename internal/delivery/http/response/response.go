package response

import "github.com/user/linkstats/internal/entity"

// ErrorBody is the payload of every non-2xx JSON response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type DomainOption struct {
	ID    string `json:"id"`
	Value string `json:"value"`
	Href  string `json:"href,omitempty"`
}

// DomainSelectorResponse is a DTO for the domain filter control, mirroring entity.DomainSelection
type DomainSelectorResponse struct {
	Items       []DomainOption `json:"items"`
	Selected    DomainOption   `json:"selected"`
	Placeholder string         `json:"placeholder"`
	ClearHref   string         `json:"clearHref"`
}

func NewDomainSelectorResponse(sel *entity.DomainSelection) DomainSelectorResponse {
	resp := DomainSelectorResponse{
		Items:       make([]DomainOption, 0, len(sel.Items)),
		Selected:    DomainOption{ID: sel.Selected.ID, Value: sel.Selected.Value},
		Placeholder: sel.Placeholder,
		ClearHref:   sel.ClearHref,
	}
	for _, item := range sel.Items {
		resp.Items = append(resp.Items, DomainOption(item))
	}
	return resp
}

// HealthResponse maps each dependency to "healthy" or "unhealthy".
type HealthResponse map[string]string
