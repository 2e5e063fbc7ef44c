package services

import (
	"github.com/placementcell/placement-service/internal/domain"
	"github.com/placementcell/placement-service/internal/dto"
	"github.com/placementcell/placement-service/internal/excel"
	"github.com/placementcell/placement-service/internal/repository"
	apperrors "github.com/placementcell/placement-service/pkg/errors"
	"github.com/rs/zerolog/log"
)

type RoundService interface {
	// CloseRound resolves one interview round from an uploaded roster:
	// roster students become "selected", every other applicant whose
	// round is still "pending" becomes "rejected" and is notified in one
	// batch. Closing the final round promotes overall statuses and the
	// job status. Parse or match failures abort before anything is
	// persisted.
	CloseRound(jobID uint, roundType string, sheet []byte, fileName string) (*dto.RoundUploadResponse, error)
	// NotifySelected mails the persisted roster exactly once per round,
	// guarded by the round's MailSent flag.
	NotifySelected(jobID uint, roundType string) (*dto.RoundNotifyResponse, error)
	RoundsForJob(jobID uint) ([]domain.JobRound, error)
}

type roundService struct {
	jobs     repository.JobRepository
	students repository.StudentRepository
	apps     repository.ApplicationRepository
	rounds   repository.RoundRepository
	roster   *excel.RosterParser
	notifier *Notifier

	// When true, a final round takes the job even if no applicant was
	// accepted.
	closeJobOnEmptyFinal bool
}

func NewRoundService(
	jobs repository.JobRepository,
	students repository.StudentRepository,
	apps repository.ApplicationRepository,
	rounds repository.RoundRepository,
	roster *excel.RosterParser,
	notifier *Notifier,
	closeJobOnEmptyFinal bool,
) RoundService {
	return &roundService{
		jobs:                 jobs,
		students:             students,
		apps:                 apps,
		rounds:               rounds,
		roster:               roster,
		notifier:             notifier,
		closeJobOnEmptyFinal: closeJobOnEmptyFinal,
	}
}

func (r *roundService) CloseRound(jobID uint, roundType string, sheet []byte, fileName string) (*dto.RoundUploadResponse, error) {
	if !domain.IsValidRound(roundType) {
		return nil, apperrors.ValidationError{
			Field: "roundType", Value: roundType, Message: "unknown round",
		}
	}

	if _, err := r.jobs.FindByID(jobID); err != nil {
		return nil, apperrors.ErrJobNotFound
	}

	// Everything up to the roster upsert is read-only: a malformed sheet
	// or a roster matching nobody aborts with no state change at all.
	emails, err := r.roster.Parse(sheet)
	if err != nil {
		return nil, err
	}

	selected, err := r.students.FindByUserEmails(emails)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, apperrors.RosterParseError{Err: apperrors.ErrRosterEmpty}
	}

	selectedIDs := make(map[uint]bool, len(selected))
	roster := make([]uint, 0, len(selected))
	for _, s := range selected {
		selectedIDs[s.ID] = true
		roster = append(roster, s.ID)
	}

	round := &domain.JobRound{
		JobID:            jobID,
		RoundType:        roundType,
		SelectedStudents: roster,
		ResultFile:       fileName,
	}
	if err := r.rounds.UpsertRoster(round); err != nil {
		return nil, err
	}

	apps, err := r.apps.ListByJob(jobID)
	if err != nil {
		return nil, err
	}

	var rejectedIDs []uint
	selectedApplicants := 0
	for i := range apps {
		app := &apps[i]
		if app.RoundStatus == nil {
			app.RoundStatus = domain.NewRoundStatus()
		}

		if selectedIDs[app.StudentID] {
			selectedApplicants++
			if app.RoundStatus[roundType] == domain.RoundSelected &&
				(roundType != domain.RoundFinal || app.Status == domain.ApplicationAccepted) {
				continue
			}
			app.RoundStatus[roundType] = domain.RoundSelected
			if roundType == domain.RoundFinal {
				app.Status = domain.ApplicationAccepted
			}
			if err := r.apps.Save(app); err != nil {
				return nil, err
			}
			continue
		}

		// Only applicants still pending for this round are rejected;
		// re-running the same roster is a no-op for everyone already
		// resolved, which also stops duplicate rejection mail.
		if app.RoundStatus[roundType] != domain.RoundPending {
			continue
		}
		app.RoundStatus[roundType] = domain.RoundRejected
		if roundType == domain.RoundFinal {
			app.Status = domain.ApplicationRejected
		}
		if err := r.apps.Save(app); err != nil {
			return nil, err
		}
		rejectedIDs = append(rejectedIDs, app.StudentID)
	}

	// State is committed; mail is best-effort from here on.
	rejectedCount := 0
	if len(rejectedIDs) > 0 {
		rejectedStudents, err := r.students.FindByIDs(rejectedIDs)
		if err != nil {
			log.Error().Err(err).Uint("job_id", jobID).Str("round", roundType).
				Msg("failed to load rejected students for notification")
		} else {
			emails := make([]string, 0, len(rejectedStudents))
			for _, s := range rejectedStudents {
				if s.User.Email != "" {
					emails = append(emails, s.User.Email)
				}
			}
			rejectedCount = r.notifier.SendBatch(
				emails,
				rejectionSubject(roundType),
				rejectionBody(roundType),
			)
		}
	}

	// A roster can name students who never applied, so a final close may
	// accept nobody; whether that still takes the job is configurable.
	if roundType == domain.RoundFinal {
		if selectedApplicants > 0 || r.closeJobOnEmptyFinal {
			if err := r.jobs.UpdateStatus(jobID, domain.JobTaken); err != nil {
				return nil, err
			}
		}
	}

	log.Info().Uint("job_id", jobID).Str("round", roundType).
		Int("selected", len(selected)).Int("rejected", len(rejectedIDs)).
		Msg("round closed")

	return &dto.RoundUploadResponse{
		Round:         *round,
		RejectedCount: rejectedCount,
	}, nil
}

func (r *roundService) NotifySelected(jobID uint, roundType string) (*dto.RoundNotifyResponse, error) {
	round, err := r.rounds.FindByJobAndRound(jobID, roundType)
	if err != nil {
		return nil, apperrors.ErrRoundNotFound
	}
	if round.MailSent {
		return nil, apperrors.ErrMailAlreadySent
	}
	if len(round.SelectedStudents) == 0 {
		return nil, apperrors.ErrRosterEmpty
	}

	students, err := r.students.FindByIDs(round.SelectedStudents)
	if err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(students))
	for _, s := range students {
		if s.User.Email != "" {
			emails = append(emails, s.User.Email)
		}
	}

	sent := r.notifier.SendBatch(emails, selectionSubject(roundType), selectionBody(roundType))
	if sent == 0 {
		// Leave MailSent unset so the send can be retried.
		return nil, apperrors.ErrNotificationFailed
	}

	if err := r.rounds.MarkMailSent(round.ID); err != nil {
		return nil, err
	}
	return &dto.RoundNotifyResponse{SentCount: sent}, nil
}

func (r *roundService) RoundsForJob(jobID uint) ([]domain.JobRound, error) {
	return r.rounds.ListByJob(jobID)
}
