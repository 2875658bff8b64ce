package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/stayledger-api/internal/application/service"
	"github.com/sangkips/stayledger-api/internal/domain/repository"
	"github.com/sangkips/stayledger-api/internal/presentation/http/dto/request"
	"github.com/sangkips/stayledger-api/internal/presentation/http/dto/response"
)

// HostHandler handles host-related HTTP requests
type HostHandler struct {
	hostService *service.HostService
}

// NewHostHandler creates a new host handler
func NewHostHandler(hostService *service.HostService) *HostHandler {
	return &HostHandler{hostService: hostService}
}

// List handles listing hosts
func (h *HostHandler) List(c *gin.Context) {
	result, err := h.hostService.ListHosts(c.Request.Context(), pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Hosts retrieved successfully", result)
}

// Search handles host typeahead
func (h *HostHandler) Search(c *gin.Context) {
	items, err := h.hostService.SearchHosts(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Hosts retrieved successfully", items)
}

// Create handles creating a host
func (h *HostHandler) Create(c *gin.Context) {
	var req request.HostRequest
	if !bindJSON(c, &req) {
		return
	}
	host, err := h.hostService.CreateHost(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Host created successfully", host)
}

// Get handles getting a single host
func (h *HostHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "host")
	if !ok {
		return
	}
	host, err := h.hostService.GetHost(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Host retrieved successfully", host)
}

// Update handles updating a host
func (h *HostHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "host")
	if !ok {
		return
	}
	var req request.HostRequest
	if !bindJSON(c, &req) {
		return
	}
	host, err := h.hostService.UpdateHost(c.Request.Context(), id, req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Host updated successfully", host)
}

// Delete handles deleting a host
func (h *HostHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "host")
	if !ok {
		return
	}
	if err := h.hostService.DeleteHost(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Host deleted successfully", nil)
}

// PropertyHandler handles property-related HTTP requests
type PropertyHandler struct {
	propertyService *service.PropertyService
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(propertyService *service.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// List handles listing properties, optionally filtered by host_id
func (h *PropertyHandler) List(c *gin.Context) {
	hostID, err := queryUUID(c, "host_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.propertyService.ListProperties(c.Request.Context(), &repository.PropertyFilterParams{
		Pagination: pageParams(c),
		HostID:     hostID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Properties retrieved successfully", result)
}

// Search handles property typeahead
func (h *PropertyHandler) Search(c *gin.Context) {
	items, err := h.propertyService.SearchProperties(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Properties retrieved successfully", items)
}

// Create handles creating a property
func (h *PropertyHandler) Create(c *gin.Context) {
	var req request.PropertyRequest
	if !bindJSON(c, &req) {
		return
	}
	property, err := h.propertyService.CreateProperty(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Property created successfully", property)
}

// Get handles getting a single property
func (h *PropertyHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "property")
	if !ok {
		return
	}
	property, err := h.propertyService.GetProperty(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Property retrieved successfully", property)
}

// Update handles updating a property
func (h *PropertyHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "property")
	if !ok {
		return
	}
	var req request.PropertyRequest
	if !bindJSON(c, &req) {
		return
	}
	property, err := h.propertyService.UpdateProperty(c.Request.Context(), id, req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Property updated successfully", property)
}

// Delete handles deleting a property
func (h *PropertyHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "property")
	if !ok {
		return
	}
	if err := h.propertyService.DeleteProperty(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Property deleted successfully", nil)
}

// ClientHandler handles client-related HTTP requests
type ClientHandler struct {
	clientService *service.ClientService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// List handles listing clients
func (h *ClientHandler) List(c *gin.Context) {
	result, err := h.clientService.ListClients(c.Request.Context(), pageParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithPagination(c, 200, "Clients retrieved successfully", result)
}

// Search handles client typeahead
func (h *ClientHandler) Search(c *gin.Context) {
	items, err := h.clientService.SearchClients(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Clients retrieved successfully", items)
}

// Create handles creating a client
func (h *ClientHandler) Create(c *gin.Context) {
	var req request.ClientRequest
	if !bindJSON(c, &req) {
		return
	}
	client, err := h.clientService.CreateClient(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "Client created successfully", client)
}

// Get handles getting a single client
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "client")
	if !ok {
		return
	}
	client, err := h.clientService.GetClient(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Client retrieved successfully", client)
}

// Update handles updating a client
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "client")
	if !ok {
		return
	}
	var req request.ClientRequest
	if !bindJSON(c, &req) {
		return
	}
	client, err := h.clientService.UpdateClient(c.Request.Context(), id, req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Client updated successfully", client)
}

// Delete handles deleting a client
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "client")
	if !ok {
		return
	}
	if err := h.clientService.DeleteClient(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Client deleted successfully", nil)
}

// PincodeHandler serves the pincode directory
type PincodeHandler struct {
	pincodeService *service.PincodeService
}

// NewPincodeHandler creates a new pincode handler
func NewPincodeHandler(pincodeService *service.PincodeService) *PincodeHandler {
	return &PincodeHandler{pincodeService: pincodeService}
}

// Search handles pincode typeahead
func (h *PincodeHandler) Search(c *gin.Context) {
	items, err := h.pincodeService.SearchPincodes(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Pincodes retrieved successfully", items)
}

// Get handles looking up one pincode
func (h *PincodeHandler) Get(c *gin.Context) {
	pin, err := h.pincodeService.GetPincode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Pincode retrieved successfully", pin)
}
