package handler

import (
	"errors"
	"net/http"
	"strconv"

	"anoa.com/tradeaid/internal/service"
	"anoa.com/tradeaid/pkg/geo"
	"anoa.com/tradeaid/pkg/response"
	"github.com/gin-gonic/gin"
)

type CommunityHandler struct {
	communityService service.CommunityService
}

func NewCommunityHandler(communityService service.CommunityService) *CommunityHandler {
	return &CommunityHandler{
		communityService: communityService,
	}
}

// GetNearby handles GET /api/communities?lat=..&lon=.. and returns the
// communities within the fixed proximity radius of the given point.
func (h *CommunityHandler) GetNearby(c *gin.Context) {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Latitude and longitude required"})
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Latitude must be a number"})
		return
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Longitude must be a number"})
		return
	}

	communities, err := h.communityService.FindNearby(c.Request.Context(), geo.Point{Lat: lat, Lon: lon})
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, communities)
}

// Create handles POST /api/communities/community. Creation is refused when
// another community already exists within the proximity radius; the
// conflicting community is echoed back.
func (h *CommunityHandler) Create(c *gin.Context) {
	var input service.CreateCommunityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	community, err := h.communityService.Create(c.Request.Context(), input)
	if err != nil {
		var nearbyErr *service.NearbyCommunityError
		if errors.As(err, &nearbyErr) {
			c.JSON(http.StatusConflict, gin.H{
				"message":  nearbyErr.Error(),
				"existing": nearbyErr.Existing,
			})
			return
		}
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, community)
}

// Join handles POST /api/communities/join.
func (h *CommunityHandler) Join(c *gin.Context) {
	var input service.JoinInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing user_id or community_id"})
		return
	}

	request, err := h.communityService.Join(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Join request submitted. Waiting for 60% approval.",
		"request": request,
	})
}
