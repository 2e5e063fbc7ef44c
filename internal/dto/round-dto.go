package dto

import "github.com/placementcell/placement-service/internal/domain"

type RoundUploadResponse struct {
	Round         domain.JobRound `json:"round"`
	RejectedCount int             `json:"rejected_count"`
}

type RoundNotifyResponse struct {
	SentCount int `json:"sent_count"`
}
