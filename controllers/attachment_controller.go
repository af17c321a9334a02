// file: controllers/attachment_controller.go
package controllers

import (
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/KANlKA/CTF-Platform/dto"
	"github.com/KANlKA/CTF-Platform/models"
	"github.com/KANlKA/CTF-Platform/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxAttachmentSize 单个附件 10MB 上限
const maxAttachmentSize = 10 << 20

type AttachmentController struct {
	db        *gorm.DB
	uploadDir string
	logger    *zap.Logger
}

func NewAttachmentController(db *gorm.DB, uploadDir string, logger *zap.Logger) *AttachmentController {
	return &AttachmentController{db: db, uploadDir: uploadDir, logger: logger}
}

// Upload 只有题目作者能上传附件。
// 磁盘文件名用 uuid，原始文件名只留在元数据里，杜绝路径穿越
func (ctrl *AttachmentController) Upload(c *gin.Context) {
	userID := c.GetUint("user_id")
	challengeID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, utils.CodeValidation, "Invalid challenge id")
		return
	}

	var challenge models.Challenge
	if err := ctrl.db.First(&challenge, challengeID).Error; err != nil {
		utils.Error(c, http.StatusNotFound, utils.CodeNotFound, "Challenge not found")
		return
	}
	if challenge.AuthorID != uint32(userID) {
		utils.Error(c, http.StatusForbidden, utils.CodeForbidden, "Only the challenge author can upload files")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		utils.Error(c, http.StatusBadRequest, utils.CodeValidation, "File is required")
		return
	}
	if file.Size > maxAttachmentSize {
		utils.Error(c, http.StatusBadRequest, utils.CodeValidation, "File must be at most 10MB")
		return
	}

	storedName := uuid.NewString() + filepath.Ext(file.Filename)
	dst := filepath.Join(ctrl.uploadDir, storedName)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		ctrl.logger.Error("attachment save failed", zap.String("stored_name", storedName), zap.Error(err))
		utils.Fail(c, err)
		return
	}

	attachment := models.Attachment{
		ChallengeID: challenge.ID,
		FileName:    filepath.Base(file.Filename),
		StoredName:  storedName,
		FileSize:    file.Size,
		MimeType:    file.Header.Get("Content-Type"),
	}
	if err := ctrl.db.Create(&attachment).Error; err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Created(c, dto.AttachmentResp{
		ID:       attachment.ID,
		FileName: attachment.FileName,
		Size:     attachment.FileSize,
		MimeType: attachment.MimeType,
	})
}

func (ctrl *AttachmentController) Download(c *gin.Context) {
	attachmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.Error(c, http.StatusBadRequest, utils.CodeValidation, "Invalid file id")
		return
	}

	var attachment models.Attachment
	if err := ctrl.db.First(&attachment, attachmentID).Error; err != nil {
		utils.Error(c, http.StatusNotFound, utils.CodeNotFound, "File not found")
		return
	}

	path := filepath.Join(ctrl.uploadDir, attachment.StoredName)
	c.FileAttachment(path, attachment.FileName)
}
