// file: mappers/challenge_mapper.go
package mappers

import (
	"github.com/KANlKA/CTF-Platform/dto"
	"github.com/KANlKA/CTF-Platform/models"
	"github.com/KANlKA/CTF-Platform/utils"
)

const timeLayout = "2006-01-02 15:04:05"

// MapChallengeToResp Flag 字段永远不出现在响应里
func MapChallengeToResp(ch models.Challenge) dto.ChallengeResp {
	files := make([]dto.AttachmentResp, 0, len(ch.Attachments))
	for _, a := range ch.Attachments {
		files = append(files, dto.AttachmentResp{
			ID:       a.ID,
			FileName: a.FileName,
			Size:     a.FileSize,
			MimeType: a.MimeType,
		})
	}
	return dto.ChallengeResp{
		ID:          ch.ID,
		Title:       ch.Title,
		Description: ch.Description,
		Category:    ch.Category,
		Difficulty:  string(ch.Difficulty),
		Points:      ch.Points,
		Author:      ch.Author.Username,
		Solves:      ch.Solves,
		Files:       files,
		CreatedAt:   ch.CreatedAt.Format(timeLayout),
	}
}

func MapUserToResp(u models.User) dto.UserResp {
	return dto.UserResp{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Bio:         u.Bio,
		Points:      u.Points,
		Role:        string(u.Role),
		CreatedAt:   u.CreatedAt.Format(timeLayout),
	}
}

func MapLeaderboardEntry(user models.User, rank, solvedCount int64) dto.LeaderboardEntry {
	return dto.LeaderboardEntry{
		ID:             user.ID,
		Username:       user.Username,
		Points:         user.Points,
		SolvedCount:    solvedCount,
		Rank:           rank,
		ClearanceLevel: utils.ClearanceLevel(user.Points),
		CreatedAt:      user.CreatedAt.Format(timeLayout),
	}
}
