package services

import (
	"context"

	"npu-collective/sabha/internal/apperrors"
	"npu-collective/sabha/internal/constants"
	"npu-collective/sabha/internal/models/dtos/responses"
	gormModels "npu-collective/sabha/internal/models/gorm"

	"gorm.io/gorm"
)

// NetworkingService projects approved profiles through their per-field
// visibility map. Profiles still in the approval queue never surface here.
type NetworkingService struct {
	db *gorm.DB
}

func NewNetworkingService(db *gorm.DB) *NetworkingService {
	return &NetworkingService{db: db}
}

// VisibleProfiles returns approved profiles with hidden fields omitted.
// A field missing from the visibility map is visible by default.
func (s *NetworkingService) VisibleProfiles(ctx context.Context) ([]responses.VisibleProfileResponse, error) {
	var profiles []gormModels.UserProfile
	err := s.db.WithContext(ctx).
		Where("status = ?", constants.ProfileApproved).
		Order("last_name, first_name").
		Find(&profiles).Error
	if err != nil {
		return nil, apperrors.WrapStorage("networking.list", err)
	}

	out := make([]responses.VisibleProfileResponse, 0, len(profiles))
	for _, profile := range profiles {
		out = append(out, responses.VisibleProfileResponse{
			UserID: profile.UserID,
			Fields: visibleFields(profile),
		})
	}
	return out, nil
}

func visibleFields(profile gormModels.UserProfile) map[string]interface{} {
	candidates := map[string]interface{}{
		"first_name": profile.FirstName,
		"last_name":  profile.LastName,
	}
	if profile.VillageName != nil {
		candidates["village_name"] = *profile.VillageName
	}
	if profile.CurrentLocation != nil {
		candidates["current_location"] = *profile.CurrentLocation
	}
	if profile.Bio != nil {
		candidates["bio"] = *profile.Bio
	}

	fields := make(map[string]interface{}, len(candidates))
	for name, value := range candidates {
		if hidden, ok := profile.FieldVisibility[name]; ok {
			if visible, isBool := hidden.(bool); isBool && !visible {
				continue
			}
		}
		fields[name] = value
	}
	return fields
}
