package category

import (
	"errors"
	"regexp"
	"strings"

	"github.com/ebgreentek/core/internal/models"
	"github.com/ebgreentek/core/internal/pkg/listquery"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"
)

var (
	ErrSlugTaken     = errors.New("category with this slug already exists")
	ErrParentMissing = errors.New("parent category does not exist")
	ErrParentCycle   = errors.New("a category cannot be its own ancestor")
)

var (
	slugRegex  = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	validTypes = []interface{}{models.CategoryTypeProduct, models.CategoryTypeArticle}
)

const childOrder = "sort_order ASC, name ASC"

type CreateCategoryDTO struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Parent      *uint  `json:"parent"`
	SortOrder   int    `json:"sort_order"`
	IsActive    *bool  `json:"is_active"`
}

func (d CreateCategoryDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required, validation.RuneLength(1, 100)),
		validation.Field(&d.Slug, validation.Required, validation.Length(1, 150), validation.Match(slugRegex)),
		validation.Field(&d.Type, validation.Required, validation.In(validTypes...)),
		validation.Field(&d.Icon, validation.Length(0, 50)),
		validation.Field(&d.Color, validation.Length(0, 50)),
	)
}

// UpdateCategoryDTO is used for PUT and PATCH. ClearParent detaches the
// category from its parent, since a JSON null cannot be told apart from an
// omitted parent.
type UpdateCategoryDTO struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`
	Parent      *uint   `json:"parent"`
	ClearParent bool    `json:"clear_parent"`
	SortOrder   *int    `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

func (d UpdateCategoryDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.NilOrNotEmpty, validation.RuneLength(1, 100)),
		validation.Field(&d.Slug, validation.NilOrNotEmpty, validation.Length(1, 150), validation.Match(slugRegex)),
		validation.Field(&d.Type, validation.In(validTypes...)),
		validation.Field(&d.Icon, validation.Length(0, 50)),
		validation.Field(&d.Color, validation.Length(0, 50)),
	)
}

// ListQuery carries list filters.
type ListQuery struct {
	Type     string
	IsActive string
}

// TreeNode is the compact shape served by the category tree.
type TreeNode struct {
	ID       uint       `json:"id"`
	Name     string     `json:"name"`
	Slug     string     `json:"slug"`
	Type     string     `json:"type"`
	Icon     string     `json:"icon"`
	Color    string     `json:"color"`
	Children []TreeNode `json:"children"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// List returns matching categories, each with its full subtree attached.
func (s *Service) List(f ListQuery) ([]models.CategoryModel, error) {
	tx := listquery.Equal(s.db.Model(&models.CategoryModel{}), "type", f.Type)
	tx = listquery.EqualBool(tx, "is_active", f.IsActive)

	cats := []models.CategoryModel{}
	if err := tx.Order(models.CategoryDefaultOrder).Find(&cats).Error; err != nil {
		return nil, err
	}
	children, err := s.childIndex(false)
	if err != nil {
		return nil, err
	}
	for i := range cats {
		attachChildren(&cats[i], children, 0)
	}
	return cats, nil
}

// Tree returns active root categories with their active descendants.
func (s *Service) Tree(categoryType string) ([]TreeNode, error) {
	tx := s.db.Where("parent_id IS NULL AND is_active = ?", true)
	tx = listquery.Equal(tx, "type", categoryType)

	var roots []models.CategoryModel
	if err := tx.Order(childOrder).Find(&roots).Error; err != nil {
		return nil, err
	}
	children, err := s.childIndex(true)
	if err != nil {
		return nil, err
	}

	nodes := make([]TreeNode, 0, len(roots))
	for _, root := range roots {
		nodes = append(nodes, buildNode(root, children, 0))
	}
	return nodes, nil
}

// childIndex maps a parent id to its children in display order.
func (s *Service) childIndex(activeOnly bool) (map[uint][]models.CategoryModel, error) {
	tx := s.db.Where("parent_id IS NOT NULL")
	if activeOnly {
		tx = tx.Where("is_active = ?", true)
	}
	var all []models.CategoryModel
	if err := tx.Order(childOrder).Find(&all).Error; err != nil {
		return nil, err
	}
	index := make(map[uint][]models.CategoryModel, len(all))
	for _, c := range all {
		index[*c.ParentID] = append(index[*c.ParentID], c)
	}
	return index, nil
}

// maxDepth bounds recursion should stored data ever contain a cycle.
const maxDepth = 32

func attachChildren(c *models.CategoryModel, index map[uint][]models.CategoryModel, depth int) {
	kids := index[c.ID]
	c.Children = make([]models.CategoryModel, len(kids))
	copy(c.Children, kids)
	if depth >= maxDepth {
		return
	}
	for i := range c.Children {
		attachChildren(&c.Children[i], index, depth+1)
	}
}

func buildNode(c models.CategoryModel, index map[uint][]models.CategoryModel, depth int) TreeNode {
	node := TreeNode{
		ID:       c.ID,
		Name:     c.Name,
		Slug:     c.Slug,
		Type:     c.Type,
		Icon:     c.Icon,
		Color:    c.Color,
		Children: []TreeNode{},
	}
	if depth >= maxDepth {
		return node
	}
	for _, child := range index[c.ID] {
		node.Children = append(node.Children, buildNode(child, index, depth+1))
	}
	return node
}

func (s *Service) GetBySlug(slug string) (*models.CategoryModel, error) {
	var cat models.CategoryModel
	if err := s.db.Where("slug = ?", slug).First(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	children, err := s.childIndex(false)
	if err != nil {
		return nil, err
	}
	attachChildren(&cat, children, 0)
	return &cat, nil
}

func (s *Service) slugTaken(slug string, exceptID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.CategoryModel{}).
		Where("slug = ? AND id <> ?", slug, exceptID).
		Count(&count).Error
	return count > 0, err
}

// checkParent verifies that parentID exists and that attaching id under it
// keeps the tree acyclic. id is zero for a category not yet stored.
func (s *Service) checkParent(id, parentID uint) error {
	if id != 0 && id == parentID {
		return ErrParentCycle
	}
	seen := map[uint]bool{}
	current := parentID
	for {
		var parent models.CategoryModel
		err := s.db.Select("id", "parent_id").Where("id = ?", current).First(&parent).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if current == parentID {
				return ErrParentMissing
			}
			return nil
		}
		if err != nil {
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		next := *parent.ParentID
		if next == id || seen[next] {
			return ErrParentCycle
		}
		seen[current] = true
		current = next
	}
}

func (s *Service) Create(dto *CreateCategoryDTO) (*models.CategoryModel, error) {
	slug := strings.TrimSpace(dto.Slug)
	taken, err := s.slugTaken(slug, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlugTaken
	}
	if dto.Parent != nil {
		if err := s.checkParent(0, *dto.Parent); err != nil {
			return nil, err
		}
	}

	cat := models.CategoryModel{
		Name:        strings.TrimSpace(dto.Name),
		Slug:        slug,
		Type:        dto.Type,
		Description: dto.Description,
		Icon:        dto.Icon,
		Color:       dto.Color,
		ParentID:    dto.Parent,
		SortOrder:   dto.SortOrder,
		IsActive:    true,
	}
	if dto.IsActive != nil {
		cat.IsActive = *dto.IsActive
	}
	if err := s.db.Create(&cat).Error; err != nil {
		return nil, err
	}
	cat.Children = []models.CategoryModel{}
	return &cat, nil
}

func (s *Service) Update(slug string, dto *UpdateCategoryDTO) (*models.CategoryModel, error) {
	cat, err := s.GetBySlug(slug)
	if err != nil || cat == nil {
		return cat, err
	}

	updates := map[string]interface{}{}
	if dto.Name != nil {
		updates["name"] = strings.TrimSpace(*dto.Name)
	}
	if dto.Slug != nil && *dto.Slug != cat.Slug {
		taken, err := s.slugTaken(*dto.Slug, cat.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrSlugTaken
		}
		updates["slug"] = *dto.Slug
	}
	if dto.Type != nil {
		updates["type"] = *dto.Type
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.Icon != nil {
		updates["icon"] = *dto.Icon
	}
	if dto.Color != nil {
		updates["color"] = *dto.Color
	}
	switch {
	case dto.ClearParent:
		updates["parent_id"] = nil
	case dto.Parent != nil:
		if err := s.checkParent(cat.ID, *dto.Parent); err != nil {
			return nil, err
		}
		updates["parent_id"] = *dto.Parent
	}
	if dto.SortOrder != nil {
		updates["sort_order"] = *dto.SortOrder
	}
	if dto.IsActive != nil {
		updates["is_active"] = *dto.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.CategoryModel{}).Where("id = ?", cat.ID).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	newSlug := cat.Slug
	if v, ok := updates["slug"]; ok {
		newSlug = v.(string)
	}
	return s.GetBySlug(newSlug)
}

// Delete removes the category and detaches its children. It reports whether
// a row was removed.
func (s *Service) Delete(slug string) (bool, error) {
	var deleted bool
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cat models.CategoryModel
		if err := tx.Where("slug = ?", slug).First(&cat).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if err := tx.Model(&models.CategoryModel{}).
			Where("parent_id = ?", cat.ID).
			Update("parent_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.CategoryModel{}, cat.ID)
		deleted = res.RowsAffected > 0
		return res.Error
	})
	return deleted, err
}
