package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type resourceOptions struct {
	preloads       []string
	createOverride gin.HandlerFunc
}

// registerResource wires the standard list/get/create/update/delete routes
// for one record type. Mutations sit behind the admin middleware.
func registerResource[T any](g *gin.RouterGroup, admin gin.HandlerFunc, path string, db *gorm.DB, opts resourceOptions) {
	r := &resource[T]{db: db, preloads: opts.preloads}

	g.GET(path, r.list)
	g.GET(path+"/:id", r.get)
	if opts.createOverride != nil {
		g.POST(path, admin, opts.createOverride)
	} else {
		g.POST(path, admin, r.create)
	}
	g.PUT(path+"/:id", admin, r.update)
	g.DELETE(path+"/:id", admin, r.remove)
}

type resource[T any] struct {
	db       *gorm.DB
	preloads []string
}

func (r *resource[T]) query() *gorm.DB {
	q := r.db
	for _, p := range r.preloads {
		q = q.Preload(p)
	}
	return q
}

func (r *resource[T]) list(c *gin.Context) {
	var records []T
	if err := r.query().Order("id").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (r *resource[T]) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var rec T
	if err := r.query().First(&rec, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (r *resource[T]) create(c *gin.Context) {
	var rec T
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := r.db.Create(&rec).Error; err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (r *resource[T]) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var existing T
	if err := r.db.First(&existing, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	var rec T
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// PUT replaces the record: Select("*") forces zero-valued fields through,
	// so a blanked field really clears the column.
	if err := r.db.Model(&existing).Select("*").Omit("id", "created_at").Updates(&rec).Error; err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	var updated T
	if err := r.query().First(&updated, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (r *resource[T]) remove(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var rec T
	if err := r.db.First(&rec, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	if err := r.db.Delete(&rec).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
