/******************************************************************************\
* llamaScript                                                                  *
*                                                                              *
* Copyright 2020-2024 Leandro Motta Barros                                     *
* Licensed under the MIT license (see LICENSE.txt for details)                 *
\******************************************************************************/

// The romutil ("llamaScript utils") package contains assorted utilities
// used in various other llamaScript packages. Now, that's a clever way of
// having a "util" package without having a "util" package!
package romutil
