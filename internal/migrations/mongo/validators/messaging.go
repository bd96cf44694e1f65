package validators

import "go.mongodb.org/mongo-driver/bson"

var MessageChannelValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"booking_id",
			"event_id",
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

			"event_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"vendor_id": bson.M{
				"bsonType": "string",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var BookingMessageValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"booking_id",
			"sender_id",
			"sender_type",
			"message",
			"sent_at",
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

			"sender_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"sender_type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"ORGANIZER",
					"VENDOR",
				},
			},

			"message": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 10000,
			},

			"sent_at": bson.M{
				"bsonType": "date",
			},

			"attachments": bson.M{
				"bsonType": "array",
				"maxItems": 10,
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"id", "url", "filename"},
				},
			},
		},
	},
}
