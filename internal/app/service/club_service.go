package service

import "dsc_team/internal/domain/model"

// ClubService serves club metadata loaded once at startup.
type ClubService struct {
	info model.ClubInfo
}

func NewClubService(info model.ClubInfo) *ClubService {
	return &ClubService{info: info}
}

func (s *ClubService) ClubInfo() model.ClubInfo {
	info := s.info
	info.Activities = append([]string(nil), s.info.Activities...)
	return info
}
