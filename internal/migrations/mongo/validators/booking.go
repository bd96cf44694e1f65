package validators

import "go.mongodb.org/mongo-driver/bson"

var VendorBookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"event_id",
			"service_listing_id",
			"vendor_id",
			"status",
			"service_date",
			"requirements",
			"status_history",
			"version",
			"created_at",
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

			"vendor_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"PENDING",
					"VENDOR_REVIEWING",
					"QUOTE_SENT",
					"QUOTE_ACCEPTED",
					"CONFIRMED",
					"IN_PROGRESS",
					"COMPLETED",
					"CANCELLED",
				},
			},

			"service_date": bson.M{
				"bsonType": "date",
			},

			"requirements": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 5000,
			},

			"final_price": bson.M{
				"bsonType":         "double",
				"exclusiveMinimum": true,
				"minimum":          0,
			},

			"status_history": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"to", "actor", "at"},
				},
			},

			"confirmed_at": bson.M{
				"bsonType": "date",
			},

			"version": bson.M{
				"bsonType": "long",
				"minimum":  1,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
