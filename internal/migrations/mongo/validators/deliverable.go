package validators

import "go.mongodb.org/mongo-driver/bson"

var DeliverableValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"booking_id",
			"title",
			"due_date",
			"status",
			"version",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"booking_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"description": bson.M{
				"bsonType":  "string",
				"maxLength": 5000,
			},

			"due_date": bson.M{
				"bsonType": "date",
			},

			// OVERDUE is derived at read time and must never be persisted.
			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"PENDING",
					"IN_PROGRESS",
					"COMPLETED",
				},
			},

			"completed_at": bson.M{
				"bsonType": "date",
			},

			"version": bson.M{
				"bsonType": "long",
				"minimum":  1,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
