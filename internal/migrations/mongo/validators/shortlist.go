package validators

import "go.mongodb.org/mongo-driver/bson"

var ShortlistItemValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"event_id",
			"service_listing_id",
			"added_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"event_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"service_listing_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"notes": bson.M{
				"bsonType":  "string",
				"maxLength": 2000,
			},

			"added_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
