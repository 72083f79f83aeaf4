// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/voyage/voyage/internal/model"
	"github.com/voyage/voyage/internal/service"
)

// CreateMemoryRequest represents the request body for creating a memory.
// Dates travel as strings so a malformed value becomes a field error.
type CreateMemoryRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	PlaceName    string `json:"placeName"`
	LocationLink string `json:"locationLink,omitempty"`
	FromDate     string `json:"fromDate"`
	ToDate       string `json:"toDate"`
	Photo        string `json:"photo"`
}

// UpdateMemoryRequest represents the request body for a partial update.
type UpdateMemoryRequest struct {
	Title        *string `json:"title,omitempty"`
	Description  *string `json:"description,omitempty"`
	PlaceName    *string `json:"placeName,omitempty"`
	LocationLink *string `json:"locationLink,omitempty"`
	FromDate     *string `json:"fromDate,omitempty"`
	ToDate       *string `json:"toDate,omitempty"`
	Photo        *string `json:"photo,omitempty"`
}

// MemoryResponse represents a memory in API responses: the stored
// fields plus the derived display fields.
type MemoryResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	PlaceName    string    `json:"placeName"`
	LocationLink string    `json:"locationLink,omitempty"`
	FromDate     time.Time `json:"fromDate"`
	ToDate       time.Time `json:"toDate"`
	Photo        string    `json:"photo"`
	OwnerID      string    `json:"user"`
	Year         int       `json:"year"`
	Month        int       `json:"month"` // 0-based, January = 0
	MonthName    string    `json:"monthName"`
	DateRange    string    `json:"dateRange"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// MemoryListResponse carries the flat list and the grouped view.
type MemoryListResponse struct {
	Memories []MemoryResponse                          `json:"memories"`
	Grouped  map[string]map[string]*MonthGroupResponse `json:"groupedMemories"`
}

// MonthGroupResponse is one month's bucket in the grouped view.
type MonthGroupResponse struct {
	Month     int              `json:"month"`
	MonthName string           `json:"monthName"`
	Memories  []MemoryResponse `json:"memories"`
}

// MessageResponse is a simple message envelope.
type MessageResponse struct {
	Message string `json:"message"`
}

// MemoryEnvelope wraps a memory with a message.
type MemoryEnvelope struct {
	Message string          `json:"message,omitempty"`
	Memory  *MemoryResponse `json:"memory"`
}

// DeleteAllResponse reports a bulk delete.
type DeleteAllResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deletedCount"`
}

// ValidationErrorResponse is the 400 envelope for field faults.
type ValidationErrorResponse struct {
	Message string                  `json:"message"`
	Errors  []model.ValidationError `json:"errors"`
}

// ToMemoryResponse converts a Memory model to its response DTO,
// computing the derived fields.
func ToMemoryResponse(memory *model.Memory) *MemoryResponse {
	return &MemoryResponse{
		ID:           memory.ID,
		Title:        memory.Title,
		Description:  memory.Description,
		PlaceName:    memory.PlaceName,
		LocationLink: memory.LocationLink,
		FromDate:     memory.FromDate,
		ToDate:       memory.ToDate,
		Photo:        memory.Photo,
		OwnerID:      memory.OwnerID,
		Year:         memory.Year(),
		Month:        memory.Month(),
		MonthName:    memory.MonthName(),
		DateRange:    memory.DateRange(),
		CreatedAt:    memory.CreatedAt,
		UpdatedAt:    memory.UpdatedAt,
	}
}

// ToMemoryListResponse converts a list result to its response DTO.
func ToMemoryListResponse(output *service.ListMemoriesOutput) *MemoryListResponse {
	memories := make([]MemoryResponse, len(output.Memories))
	for i, memory := range output.Memories {
		memories[i] = *ToMemoryResponse(memory)
	}

	grouped := make(map[string]map[string]*MonthGroupResponse, len(output.Grouped))
	for year, months := range output.Grouped {
		groupedMonths := make(map[string]*MonthGroupResponse, len(months))
		for monthName, bucket := range months {
			bucketMemories := make([]MemoryResponse, len(bucket.Memories))
			for i, memory := range bucket.Memories {
				bucketMemories[i] = *ToMemoryResponse(memory)
			}
			groupedMonths[monthName] = &MonthGroupResponse{
				Month:     bucket.Month,
				MonthName: bucket.MonthName,
				Memories:  bucketMemories,
			}
		}
		grouped[year] = groupedMonths
	}

	return &MemoryListResponse{
		Memories: memories,
		Grouped:  grouped,
	}
}
