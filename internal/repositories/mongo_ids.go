package repositories

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// idFilter matches field against id whether the stored value is the hex
// string this package writes or an ObjectId written by an older backend.
// ObjectId values decode into the models' string ids as hex.
func idFilter(field, id string) bson.M {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return bson.M{field: id}
	}
	return bson.M{field: bson.M{"$in": bson.A{id, oid}}}
}
