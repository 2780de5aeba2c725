package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"visaguide/internal/model"
	"visaguide/internal/repository"
)

type VisaService struct {
	repo   *repository.VisaRepository
	logger logrus.FieldLogger
}

func NewVisaService(repo *repository.VisaRepository, logger logrus.FieldLogger) *VisaService {
	return &VisaService{repo: repo, logger: logger}
}

func (s *VisaService) ListAll(ctx context.Context) ([]model.VisaRecord, error) {
	rows, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return s.toRecords(rows), nil
}

func (s *VisaService) ListByCountry(ctx context.Context, country string) ([]model.VisaRecord, error) {
	rows, err := s.repo.ListByCountry(ctx, strings.TrimSpace(country))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if len(rows) == 0 {
		return nil, ErrVisaNotFound
	}
	return s.toRecords(rows), nil
}

func (s *VisaService) GetByCountryAndType(ctx context.Context, country, visaType string) (*model.VisaRecord, error) {
	row, err := s.repo.GetByCountryAndType(ctx, strings.TrimSpace(country), strings.TrimSpace(visaType))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if row == nil {
		return nil, ErrVisaNotFound
	}
	rec := s.toRecord(row)
	return &rec, nil
}

func (s *VisaService) ListCountries(ctx context.Context) ([]string, error) {
	countries, err := s.repo.ListCountries(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if countries == nil {
		countries = []string{}
	}
	return countries, nil
}

func (s *VisaService) ListVisaTypes(ctx context.Context, country string) ([]string, error) {
	types, err := s.repo.ListVisaTypes(ctx, strings.TrimSpace(country))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if len(types) == 0 {
		return nil, ErrVisaNotFound
	}
	return types, nil
}

func (s *VisaService) Search(ctx context.Context, term string) ([]model.VisaRecord, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, ErrSearchTermRequired
	}
	rows, err := s.repo.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return s.toRecords(rows), nil
}

// ImportBatch inserts every well-formed element of a JSON array and returns
// how many were stored. Elements that fail to decode, validate or insert are
// logged and skipped.
func (s *VisaService) ImportBatch(ctx context.Context, raw []byte) (int, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil || elements == nil {
		return 0, ErrImportNotArray
	}
	if len(elements) == 0 {
		return 0, nil
	}

	n, err := s.repo.ImportInTx(ctx, func(insert func(*model.VisaInfo) error) (int, error) {
		written := 0
		for i, element := range elements {
			entry := s.logger.WithField("index", i)

			var rec model.VisaRecord
			if err := json.Unmarshal(element, &rec); err != nil {
				entry.WithError(err).Warn("skip visa record: decode failed")
				continue
			}
			rec.Country = strings.TrimSpace(rec.Country)
			rec.VisaType = strings.TrimSpace(rec.VisaType)
			if rec.Country == "" || rec.VisaType == "" {
				entry.Warn("skip visa record: country and visa_type are required")
				continue
			}
			if err := insert(model.NewVisaInfo(rec)); err != nil {
				entry.WithError(err).WithFields(logrus.Fields{
					"country":   rec.Country,
					"visa_type": rec.VisaType,
				}).Error("skip visa record: insert failed")
				continue
			}
			written++
		}
		return written, nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	s.logger.WithFields(logrus.Fields{
		"received": len(elements),
		"imported": n,
	}).Info("visa import finished")
	return n, nil
}

func (s *VisaService) toRecords(rows []model.VisaInfo) []model.VisaRecord {
	out := make([]model.VisaRecord, 0, len(rows))
	for i := range rows {
		out = append(out, s.toRecord(&rows[i]))
	}
	return out
}

// toRecord never fails: a malformed requirements column degrades to an empty
// list.
func (s *VisaService) toRecord(row *model.VisaInfo) model.VisaRecord {
	reqs, err := row.DecodeRequirements()
	if err != nil {
		s.logger.WithError(err).WithField("visa_id", row.ID).Warn("requirements column is malformed")
	}
	return row.Record(reqs)
}
