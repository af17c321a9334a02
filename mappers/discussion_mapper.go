// file: mappers/discussion_mapper.go
package mappers

import (
	"github.com/KANlKA/CTF-Platform/dto"
	"github.com/KANlKA/CTF-Platform/models"
	"github.com/KANlKA/CTF-Platform/services"
)

func mapAuthor(u models.User) dto.AuthorResp {
	return dto.AuthorResp{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Avatar:      u.Avatar,
	}
}

func MapCommentToResp(c models.Comment, counts services.VoteCounts) dto.CommentResp {
	return dto.CommentResp{
		ID:            c.ID,
		Content:       c.Content,
		Author:        mapAuthor(c.Author),
		DiscussionID:  c.DiscussionID,
		ParentComment: c.ParentCommentID,
		Upvotes:       counts.Upvotes,
		Downvotes:     counts.Downvotes,
		Score:         counts.Score,
		IsSolution:    c.IsSolution,
		Edited:        c.Edited,
		CreatedAt:     c.CreatedAt.Format(timeLayout),
	}
}

// MapDiscussionToResp commentCounts 以评论 id 为键，缺省按零票处理
func MapDiscussionToResp(d models.Discussion, counts services.VoteCounts, commentCounts map[uint32]services.VoteCounts) dto.DiscussionResp {
	tags := make([]string, 0, len(d.Tags))
	for _, t := range d.Tags {
		tags = append(tags, t.Tag)
	}

	comments := make([]dto.CommentResp, 0, len(d.Comments))
	for _, c := range d.Comments {
		comments = append(comments, MapCommentToResp(c, commentCounts[c.ID]))
	}

	return dto.DiscussionResp{
		ID:        d.ID,
		Title:     d.Title,
		Content:   d.Content,
		Author:    mapAuthor(d.Author),
		Tags:      tags,
		Upvotes:   counts.Upvotes,
		Downvotes: counts.Downvotes,
		Score:     counts.Score,
		Comments:  comments,
		IsPinned:  d.IsPinned,
		IsClosed:  d.IsClosed,
		CreatedAt: d.CreatedAt.Format(timeLayout),
	}
}
