package contact

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/technocomputers/storefront-api/response"
	"github.com/technocomputers/storefront-api/service"
)

func SaveContact(svc *service.ContactService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input service.ContactInput
		if err := c.ShouldBindJSON(&input); err != nil {
			response.Fail(c, http.StatusBadRequest, "Name, email, subject and message are required")
			return
		}
		contact, err := svc.SaveContact(input)
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.Created(c, "Message sent successfully", contact)
	}
}

func GetAllContacts(svc *service.ContactService) gin.HandlerFunc {
	return func(c *gin.Context) {
		contacts, err := svc.ListContacts()
		if err != nil {
			response.FromError(c, err)
			return
		}
		response.OK(c, "Contacts retrieved successfully", contacts)
	}
}
