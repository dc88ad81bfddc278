package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/judyrop/storefront/models"
)

// maxCategoryDepth bounds every walk over the parent links.
const maxCategoryDepth = 32

// descendantCategoryIDs returns categoryID followed by every category below it.
func descendantCategoryIDs(db *gorm.DB, categoryID uint) ([]uint, error) {
	return collectDescendants(db, categoryID, 0)
}

func collectDescendants(db *gorm.DB, categoryID uint, depth int) ([]uint, error) {
	ids := []uint{categoryID}
	if depth >= maxCategoryDepth {
		return ids, nil
	}
	var children []models.Category
	if err := db.Select("id").Where("parent_id = ?", categoryID).Find(&children).Error; err != nil {
		return nil, err
	}
	for _, child := range children {
		childIDs, err := collectDescendants(db, child.ID, depth+1)
		if err != nil {
			return nil, err
		}
		ids = append(ids, childIDs...)
	}
	return ids, nil
}

// ancestors walks parent links from c up to its root; root comes first.
func ancestors(db *gorm.DB, c models.Category) ([]models.Category, error) {
	chain := []models.Category{c}
	current := c
	for i := 0; i < maxCategoryDepth && current.ParentID != nil; i++ {
		var parent models.Category
		if err := db.First(&parent, *current.ParentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				break
			}
			return nil, err
		}
		chain = append(chain, parent)
		current = parent
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// buildTree links a flat, id-ordered list into root nodes.
func buildTree(categories []models.Category) []*models.Category {
	nodes := make(map[uint]*models.Category, len(categories))
	for i := range categories {
		c := &categories[i]
		c.Children = []*models.Category{}
		nodes[c.ID] = c
	}

	roots := []*models.Category{}
	for i := range categories {
		c := &categories[i]
		if c.ParentID != nil {
			if parent, ok := nodes[*c.ParentID]; ok && parent.ID != c.ID {
				parent.Children = append(parent.Children, c)
				continue
			}
		}
		roots = append(roots, c)
	}
	return roots
}
