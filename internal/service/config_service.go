package service

import (
	"context"

	"chichapos/internal/dto"
	"chichapos/internal/model"
	"chichapos/internal/repository"

	"github.com/lib/pq"
)

type ConfigService interface {
	Obtener(ctx context.Context) (*dto.ConfigResponse, error)
	Patch(ctx context.Context, req dto.PatchConfigRequest) (*dto.ConfigResponse, error)
}

type configService struct {
	repo repository.AppConfigRepository
}

func NewConfigService(repo repository.AppConfigRepository) ConfigService {
	return &configService{repo: repo}
}

func (s *configService) Obtener(ctx context.Context) (*dto.ConfigResponse, error) {
	cfg, err := s.repo.Obtener(ctx)
	if err != nil {
		return nil, err
	}
	return configToResponse(cfg), nil
}

// Patch writes only the columns present in the request; absent fields keep
// their stored value.
func (s *configService) Patch(ctx context.Context, req dto.PatchConfigRequest) (*dto.ConfigResponse, error) {
	campos := map[string]interface{}{}
	if req.LogoURL != nil {
		campos["logo_url"] = *req.LogoURL
	}
	if req.SlideURLs != nil {
		campos["slide_urls"] = pq.StringArray(*req.SlideURLs)
	}
	if req.WhatsappNumber != nil {
		campos["whatsapp_number"] = *req.WhatsappNumber
	}
	if req.YapeNumber != nil {
		campos["yape_number"] = *req.YapeNumber
	}
	if req.YapeName != nil {
		campos["yape_name"] = *req.YapeName
	}
	if req.PlinNumber != nil {
		campos["plin_number"] = *req.PlinNumber
	}
	if req.PlinName != nil {
		campos["plin_name"] = *req.PlinName
	}
	if req.FacebookURL != nil {
		campos["facebook_url"] = *req.FacebookURL
	}
	if req.InstagramURL != nil {
		campos["instagram_url"] = *req.InstagramURL
	}
	if req.TiktokURL != nil {
		campos["tiktok_url"] = *req.TiktokURL
	}
	if req.Direccion != nil {
		campos["direccion"] = *req.Direccion
	}
	if req.Horario != nil {
		campos["horario"] = *req.Horario
	}

	if len(campos) > 0 {
		if err := s.repo.Patch(ctx, campos); err != nil {
			return nil, err
		}
	}
	return s.Obtener(ctx)
}

func configToResponse(cfg *model.AppConfig) *dto.ConfigResponse {
	return &dto.ConfigResponse{
		LogoURL:        cfg.LogoURL,
		SlideURLs:      []string(cfg.SlideURLs),
		WhatsappNumber: cfg.WhatsappNumber,
		YapeNumber:     cfg.YapeNumber,
		YapeName:       cfg.YapeName,
		PlinNumber:     cfg.PlinNumber,
		PlinName:       cfg.PlinName,
		FacebookURL:    cfg.FacebookURL,
		InstagramURL:   cfg.InstagramURL,
		TiktokURL:      cfg.TiktokURL,
		Direccion:      cfg.Direccion,
		Horario:        cfg.Horario,
	}
}
