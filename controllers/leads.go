package controllers

import (
	"net/http"

	"github.com/24SankeerthM/FUTURE-FS-02/models"
	"github.com/24SankeerthM/FUTURE-FS-02/service"
	"github.com/24SankeerthM/FUTURE-FS-02/utils"

	"github.com/gin-gonic/gin"
)

// LeadController 线索接口
type LeadController struct {
	leads *service.LeadService
}

func NewLeadController(leads *service.LeadService) *LeadController {
	return &LeadController{leads: leads}
}

// GetLeads 线索列表，支持 ?search= 模糊搜索
func (lc *LeadController) GetLeads(c *gin.Context) {
	leads, err := lc.leads.ListLeads(c.Request.Context(), c.Query("search"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, leads)
}

// CreateLead 创建线索
func (lc *LeadController) CreateLead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var req models.CreateLeadRequest
	if !bindJSON(c, &req, "Please fill in all fields") {
		return
	}

	lead, err := lc.leads.CreateLead(c.Request.Context(), req, user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lead)
}

// UpdateLead 更新线索（状态流转、计分、审计）
func (lc *LeadController) UpdateLead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch models.LeadPatch
	if !bindJSON(c, &patch, "Invalid lead data") {
		return
	}

	lead, err := lc.leads.UpdateLead(c.Request.Context(), id, patch, user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// DeleteLead 删除线索
func (lc *LeadController) DeleteLead(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := lc.leads.DeleteLead(c.Request.Context(), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.MessageResponse(c, http.StatusOK, "Lead removed")
}

// AddNote 添加备注
func (lc *LeadController) AddNote(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.NoteRequest
	if !bindJSON(c, &req, "Note text is required") {
		return
	}

	lead, err := lc.leads.AddNote(c.Request.Context(), id, req.Text, user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// EmailLead 给线索发送邮件并记录备注
func (lc *LeadController) EmailLead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.LeadEmailRequest
	if !bindJSON(c, &req, "Subject and body are required") {
		return
	}

	lead, err := lc.leads.EmailLead(c.Request.Context(), id, req, user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, lead)
}

// BulkImport JSON 数组批量导入
func (lc *LeadController) BulkImport(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var records []models.ImportRecord
	if !bindJSON(c, &records, "Expected an array of leads") {
		return
	}

	imported, err := lc.leads.BulkImport(c.Request.Context(), records, user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Leads imported successfully",
		"imported": imported,
	})
}

// ImportFile 上传 CSV/XLSX 文件导入
func (lc *LeadController) ImportFile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("File is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	defer file.Close()

	imported, err := lc.leads.ImportLeadsFile(c.Request.Context(), header.Filename, file, user.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message":  "Leads imported successfully",
		"imported": imported,
	})
}

// ExportLeads 导出线索，?format=csv|xlsx
func (lc *LeadController) ExportLeads(c *gin.Context) {
	export, err := lc.leads.ExportLeads(c.Request.Context(), c.Query("format"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+export.Filename)
	c.Data(http.StatusOK, export.ContentType, export.Data)
}

// GetStats 看板统计
func (lc *LeadController) GetStats(c *gin.Context) {
	stats, err := lc.leads.ComputeStats(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// CreatePublicLead 公开表单提交，无需登录
func (lc *LeadController) CreatePublicLead(c *gin.Context) {
	var req models.PublicLeadRequest
	if !bindJSON(c, &req, "Name and Email are required") {
		return
	}

	if _, err := lc.leads.CreatePublicLead(c.Request.Context(), req); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.MessageResponse(c, http.StatusCreated, "Lead submitted successfully")
}
