package main

// @title Food Waste Inventory API
// @version 1.0
// @description Perishable inventory with near-expiry discounts and donations

// @contact.name API Support
// @contact.email support@example.com

// @license.name MIT

// @host localhost:5000
// @BasePath /

// @tag.name Inventory
// @tag.description Inventory records

// @tag.name Donations
// @tag.description Donation candidates and hand-over

// @tag.name Analytics
// @tag.description Dashboard counts

// @tag.name Health
// @tag.description Health check endpoints

// @tag.name Swagger
// @tag.description Swagger documentation endpoints
