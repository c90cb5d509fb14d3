package avatar

import "github.com/wricardo/dogloot/internal/loot"

func placeholderLoot(id int) loot.Object {
	return loot.Object{ID: id, TypeIdx: 0, Value: 1}
}
