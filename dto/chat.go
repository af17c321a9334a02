// file: dto/chat.go
package dto

// ========== 请求 DTO ==========

type ChatReq struct {
	Message     string  `json:"message"`
	ChallengeID *uint32 `json:"challengeId"`
}

// ========== 响应 DTO ==========

type ChatResp struct {
	Response          string `json:"response"`
	Type              string `json:"type"`
	RequiresChallenge bool   `json:"requiresChallenge"`
	PointsDeducted    int    `json:"pointsDeducted,omitempty"`
}

// ========== 排行榜 DTO ==========

type LeaderboardEntry struct {
	ID             uint32 `json:"id"`
	Username       string `json:"username"`
	Points         int    `json:"points"`
	SolvedCount    int64  `json:"solvedCount"`
	Rank           int64  `json:"rank"`
	ClearanceLevel int    `json:"clearanceLevel"`
	CreatedAt      string `json:"createdAt"`
}

type RankResp struct {
	ID             uint32 `json:"id"`
	Username       string `json:"username"`
	Points         int    `json:"points"`
	Rank           int64  `json:"rank"`
	ClearanceLevel int    `json:"clearanceLevel"`
}

type SolvedChallengeResp struct {
	ID         uint32 `json:"id"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	Points     int    `json:"points"`
	SolvedAt   string `json:"solvedAt"`
}

type TodoChallengeResp struct {
	ID         uint32 `json:"id"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	Points     int    `json:"points"`
}
