package handler

import (
	"almacenpos/internal/dto"
	"almacenpos/internal/model"
)

// Model → response DTO mapping. Dangling references render as "[eliminado]"
// instead of failing the whole listing.

func productoResponse(p *model.Producto) dto.ProductoResponse {
	return dto.ProductoResponse{
		ID:          p.ID.String(),
		Codigo:      p.Codigo,
		Nombre:      p.Nombre,
		Categoria:   p.Categoria,
		PrecioCosto: p.PrecioCosto,
		MargenPct:   p.MargenPct,
		PrecioVenta: p.PrecioVenta,
		StockActual: p.StockActual,
		Activo:      p.Activo,
		CreatedAt:   dto.FormatFechaHora(p.CreatedAt),
	}
}

func ventaResponse(v *model.Venta) dto.VentaResponse {
	cliente := "Consumidor final"
	if v.Cliente != nil {
		cliente = v.Cliente.Nombre
	} else if v.ClienteID != nil {
		cliente = "[eliminado]"
	}

	items := make([]dto.ItemVentaResponse, 0, len(v.Items))
	for _, it := range v.Items {
		nombre := "[eliminado]"
		if it.Producto != nil {
			nombre = it.Producto.Nombre
		}
		items = append(items, dto.ItemVentaResponse{
			Producto:       nombre,
			Cantidad:       it.Cantidad,
			PrecioUnitario: it.PrecioUnitario,
			Subtotal:       it.Subtotal,
		})
	}

	return dto.VentaResponse{
		ID:         v.ID.String(),
		Referencia: v.Referencia,
		Cliente:    cliente,
		Items:      items,
		Total:      v.Total,
		Estado:     v.Estado,
		Fecha:      dto.FormatFechaHora(v.Fecha),
	}
}

func compraResponse(l *model.Lote) dto.CompraResponse {
	producto := "[eliminado]"
	if l.Producto != nil {
		producto = l.Producto.Nombre
	}
	proveedor := "-"
	if l.Proveedor != nil {
		proveedor = l.Proveedor.RazonSocial
	} else if l.ProveedorID != nil {
		proveedor = "[eliminado]"
	}

	var vencimiento *string
	if l.Vencimiento != nil {
		s := dto.FormatFecha(*l.Vencimiento)
		vencimiento = &s
	}

	return dto.CompraResponse{
		LoteID:             l.ID.String(),
		Producto:           producto,
		Proveedor:          proveedor,
		CantidadRecibida:   l.CantidadRecibida,
		CantidadDisponible: l.CantidadDisponible,
		CostoUnitario:      l.CostoUnitario,
		CostoTotal:         l.CostoTotal,
		FechaIngreso:       dto.FormatFechaHora(l.FechaIngreso),
		NroDocumento:       l.NroDocumento,
		Perecedero:         l.Perecedero,
		Vencimiento:        vencimiento,
	}
}

func movimientoCajaResponse(m *model.MovimientoCaja) dto.MovimientoCajaResponse {
	return dto.MovimientoCajaResponse{
		ID:            m.ID.String(),
		Secuencia:     m.Secuencia,
		Tipo:          m.Tipo,
		Categoria:     m.Categoria,
		Descripcion:   m.Descripcion,
		Monto:         m.Monto,
		SaldoAnterior: m.SaldoAnterior,
		SaldoNuevo:    m.SaldoNuevo,
		Fecha:         dto.FormatFechaHora(m.Fecha),
		Usuario:       m.Usuario,
	}
}

func historialPrecioResponse(h *model.HistorialPrecio) dto.HistorialPrecioResponse {
	return dto.HistorialPrecioResponse{
		CostoAntes:   h.CostoAntes,
		CostoDespues: h.CostoDespues,
		VentaAntes:   h.VentaAntes,
		VentaDespues: h.VentaDespues,
		MargenPct:    h.MargenPct,
		Motivo:       h.Motivo,
		Fecha:        dto.FormatFechaHora(h.CreatedAt),
	}
}
