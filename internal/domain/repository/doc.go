// Package repository define el modelo de usuario y el contrato del store.
//
// Los services (social, auth) y el filtro bearer dependen solo de estas
// interfaces. Las implementaciones concretas viven en internal/store:
//
//	┌──────────────────────────────────────────────┐
//	│     services / middlewares / controllers     │
//	└──────────────────────────────────────────────┘
//	                      │
//	                      ▼
//	┌──────────────────────────────────────────────┐
//	│       domain/repository (UserRepository)     │
//	└──────────────────────────────────────────────┘
//	                      │
//	       ┌──────────────┼──────────────┐
//	       ▼              ▼              ▼
//	┌────────────┐ ┌────────────┐ ┌────────────┐
//	│ store/pg   │ │store/memory│ │store/cached│
//	└────────────┘ └────────────┘ └────────────┘
//
// Convenciones:
//   - Context siempre es el primer parámetro
//   - Errores de dominio están en errors.go
package repository
