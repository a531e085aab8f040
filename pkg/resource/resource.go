// Package resource shapes models into API output. A transformer maps one
// model to a Map; collections are transformed item by item.
//
//	func Item(it models.OrderItem) resource.Map {
//	    return resource.Map{"id": it.ID, "size": it.Size}
//	}
//
//	c.Success(resource.Collection(items, Item))
package resource

// Map is the JSON object a transformer produces.
type Map = map[string]interface{}

// Transformer converts one model into its API shape.
type Transformer[T any] func(T) Map

// Item transforms a single value. A nil pointer yields nil so "not set"
// values serialize as null.
func Item[T any](v *T, fn Transformer[T]) Map {
	if v == nil {
		return nil
	}
	return fn(*v)
}

// Collection transforms every element. The result is never nil, so empty
// collections serialize as [].
func Collection[T any](items []T, fn Transformer[T]) []Map {
	out := make([]Map, 0, len(items))
	for _, it := range items {
		out = append(out, fn(it))
	}
	return out
}
