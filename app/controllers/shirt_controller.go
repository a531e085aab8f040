package controllers

import (
	"bufio"
	"net/http"

	"github.com/shashiranjanraj/shirtshop/app/resources"
	"github.com/shashiranjanraj/shirtshop/app/services"
	"github.com/shashiranjanraj/shirtshop/pkg/ctx"
	"github.com/shashiranjanraj/shirtshop/pkg/resource"
	"github.com/shopspring/decimal"
)

// maxImageBytes caps an uploaded shirt image.
const maxImageBytes = 5 << 20

type ShirtController struct {
	catalog *services.CatalogService
}

func NewShirtController(catalog *services.CatalogService) *ShirtController {
	return &ShirtController{catalog: catalog}
}

type shirtInput struct {
	Name    string           `json:"name" validate:"required,max=255"`
	Sizes   []string         `json:"sizes" validate:"required,min=1,no_comma"`
	Price   *decimal.Decimal `json:"price" validate:"required"`
	Image   string           `json:"image" validate:"nullable,max=512"`
	Visible *bool            `json:"visible"`
}

func (in shirtInput) toService() services.ProductInput {
	visible := true
	if in.Visible != nil {
		visible = *in.Visible
	}
	return services.ProductInput{
		Name:    in.Name,
		Sizes:   in.Sizes,
		Price:   *in.Price,
		Image:   in.Image,
		Visible: visible,
	}
}

// Index lists visible shirts; admins may pass ?all=1 for hidden ones too.
func (sc *ShirtController) Index(c *ctx.Context) {
	all := c.Query("all") == "1" || c.Query("all") == "true"
	list, err := sc.catalog.List(c.Context(), c.Identity(), all)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resource.Collection(list, resources.Product))
}

func (sc *ShirtController) Show(c *ctx.Context) {
	id, err := c.ParamUint("id")
	if err != nil {
		c.Fail(err)
		return
	}
	p, err := sc.catalog.Get(c.Context(), c.Identity(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.Product(*p))
}

func (sc *ShirtController) Store(c *ctx.Context) {
	var in shirtInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := sc.catalog.Create(c.Context(), c.Identity(), in.toService())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(resources.Product(*p))
}

func (sc *ShirtController) Update(c *ctx.Context) {
	id, err := c.ParamUint("id")
	if err != nil {
		c.Fail(err)
		return
	}
	var in shirtInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := sc.catalog.Update(c.Context(), c.Identity(), id, in.toService())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.Product(*p))
}

func (sc *ShirtController) Destroy(c *ctx.Context) {
	id, err := c.ParamUint("id")
	if err != nil {
		c.Fail(err)
		return
	}
	if err := sc.catalog.Delete(c.Context(), c.Identity(), id); err != nil {
		c.Fail(err)
		return
	}
	c.Message("Shirt deleted")
}

// UploadImage accepts a multipart form with the file in the "image" field.
func (sc *ShirtController) UploadImage(c *ctx.Context) {
	id, err := c.ParamUint("id")
	if err != nil {
		c.Fail(err)
		return
	}

	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, maxImageBytes+1<<20)
	file, header, err := c.R.FormFile("image")
	if err != nil {
		c.ValidationError(map[string]string{"image": "The image field is required."})
		return
	}
	defer file.Close()
	if header.Size > maxImageBytes {
		c.ValidationError(map[string]string{"image": "The image must not exceed 5 MB."})
		return
	}

	// trust the bytes, not the client's declared type
	br := bufio.NewReader(file)
	head, _ := br.Peek(512)
	contentType := http.DetectContentType(head)

	p, err := sc.catalog.UploadImage(c.Context(), c.Identity(), id, contentType, br)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(resources.Product(*p))
}
