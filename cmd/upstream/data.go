package main

type service struct {
	Title     string
	Name      string
	Endpoints map[string]interface{}
}

type object = map[string]interface{}

var services = map[string]service{
	"erp": {
		Title: "ERP Mock API",
		Name:  "erp-mock",
		Endpoints: map[string]interface{}{
			"/orders": []object{
				{"id": "ORD-001", "product": "Enterprise License", "quantity": 10, "amount": 50000, "status": "shipped", "customer": "Acme Corp"},
				{"id": "ORD-002", "product": "Support Package", "quantity": 1, "amount": 15000, "status": "processing", "customer": "TechStart Inc"},
				{"id": "ORD-003", "product": "Cloud Credits", "quantity": 100, "amount": 10000, "status": "pending", "customer": "Global Industries"},
				{"id": "ORD-004", "product": "Training Bundle", "quantity": 5, "amount": 7500, "status": "shipped", "customer": "DataFlow LLC"},
				{"id": "ORD-005", "product": "API Gateway License", "quantity": 2, "amount": 25000, "status": "delivered", "customer": "CloudNine Systems"},
			},
			"/inventory": []object{
				{"sku": "LIC-ENT-001", "name": "Enterprise License", "stock": 500, "warehouse": "WH-DIGITAL", "reorderPoint": 100},
				{"sku": "SUP-PKG-001", "name": "Support Package", "stock": 999, "warehouse": "WH-DIGITAL", "reorderPoint": 50},
				{"sku": "CLD-CRD-001", "name": "Cloud Credits", "stock": 10000, "warehouse": "WH-DIGITAL", "reorderPoint": 1000},
				{"sku": "TRN-BND-001", "name": "Training Bundle", "stock": 250, "warehouse": "WH-DIGITAL", "reorderPoint": 25},
				{"sku": "API-GW-001", "name": "API Gateway License", "stock": 150, "warehouse": "WH-DIGITAL", "reorderPoint": 20},
			},
			"/invoices": []object{
				{"id": "INV-2024-001", "orderId": "ORD-001", "amount": 50000, "status": "paid", "dueDate": "2024-02-15"},
				{"id": "INV-2024-002", "orderId": "ORD-002", "amount": 15000, "status": "pending", "dueDate": "2024-02-28"},
				{"id": "INV-2024-003", "orderId": "ORD-003", "amount": 10000, "status": "overdue", "dueDate": "2024-01-15"},
			},
		},
	},
	"crm": {
		Title: "CRM Mock API",
		Name:  "crm-mock",
		Endpoints: map[string]interface{}{
			"/customers": []object{
				{"id": "CUS-001", "name": "Acme Corporation", "email": "contact@acme.com", "tier": "enterprise", "revenue": 500000, "industry": "Manufacturing"},
				{"id": "CUS-002", "name": "TechStart Inc", "email": "info@techstart.io", "tier": "startup", "revenue": 50000, "industry": "Technology"},
				{"id": "CUS-003", "name": "Global Industries", "email": "sales@global.com", "tier": "enterprise", "revenue": 1200000, "industry": "Retail"},
				{"id": "CUS-004", "name": "DataFlow LLC", "email": "hello@dataflow.co", "tier": "professional", "revenue": 150000, "industry": "Finance"},
				{"id": "CUS-005", "name": "CloudNine Systems", "email": "support@cloudnine.io", "tier": "enterprise", "revenue": 800000, "industry": "Healthcare"},
			},
			"/leads": []object{
				{"id": "LEAD-001", "company": "NewCo Ventures", "contact": "John Smith", "email": "john@newco.com", "status": "qualified", "score": 85},
				{"id": "LEAD-002", "company": "FutureTech Labs", "contact": "Jane Doe", "email": "jane@futuretech.io", "status": "contacted", "score": 72},
				{"id": "LEAD-003", "company": "Innovate Inc", "contact": "Bob Wilson", "email": "bob@innovate.com", "status": "new", "score": 45},
				{"id": "LEAD-004", "company": "Scale Solutions", "contact": "Alice Brown", "email": "alice@scale.co", "status": "qualified", "score": 90},
			},
			"/opportunities": []object{
				{"id": "OPP-001", "name": "Enterprise Deal - Acme", "value": 250000, "stage": "negotiation", "probability": 75},
				{"id": "OPP-002", "name": "Platform Migration - Global", "value": 500000, "stage": "proposal", "probability": 50},
				{"id": "OPP-003", "name": "API Integration - CloudNine", "value": 100000, "stage": "closed-won", "probability": 100},
			},
		},
	},
	"itsm": {
		Title: "ITSM Mock API",
		Name:  "itsm-mock",
		Endpoints: map[string]interface{}{
			"/tickets": []object{
				{"id": "TKT-001", "title": "API Gateway Timeout", "priority": "high", "status": "open", "assignee": "DevOps Team", "created": "2024-01-10"},
				{"id": "TKT-002", "title": "Integration Sync Failure", "priority": "critical", "status": "in-progress", "assignee": "Integration Team", "created": "2024-01-12"},
				{"id": "TKT-003", "title": "Dashboard Loading Slow", "priority": "medium", "status": "open", "assignee": "Frontend Team", "created": "2024-01-13"},
				{"id": "TKT-004", "title": "SSL Certificate Renewal", "priority": "high", "status": "resolved", "assignee": "Security Team", "created": "2024-01-08"},
				{"id": "TKT-005", "title": "Database Connection Pool", "priority": "medium", "status": "closed", "assignee": "DBA Team", "created": "2024-01-05"},
			},
			"/incidents": []object{
				{"id": "INC-001", "title": "Production Outage - API Gateway", "severity": "P1", "status": "resolved", "duration": "45 min"},
				{"id": "INC-002", "title": "Data Sync Delay", "severity": "P2", "status": "investigating", "duration": "ongoing"},
				{"id": "INC-003", "title": "Authentication Service Degraded", "severity": "P3", "status": "monitoring", "duration": "2 hours"},
			},
			"/changes": []object{
				{"id": "CHG-001", "title": "Deploy v2.5.0 to Production", "status": "approved", "scheduledDate": "2024-01-20", "risk": "medium"},
				{"id": "CHG-002", "title": "Database Schema Migration", "status": "pending", "scheduledDate": "2024-01-25", "risk": "high"},
				{"id": "CHG-003", "title": "Kong Gateway Upgrade", "status": "implemented", "scheduledDate": "2024-01-15", "risk": "low"},
			},
		},
	},
}
